// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete backend to run, which in
// turn register their factories with the storage package. A binary that wants
// only one backend can import that backend's package instead.
package all

import (
	_ "ecometl/internal/storage/postgres"
	_ "ecometl/internal/storage/sqlite"
)
