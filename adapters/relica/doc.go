// Package relica provides SQL-backed repository implementations for the
// messageboard library using the Relica query builder.
//
// Supported databases: MySQL, PostgreSQL, and SQLite. The driverName
// passed to the constructors should be "mysql", "postgres", or "sqlite3";
// register the matching driver with a blank import in your main package.
//
// Apply the embedded migrations (see the migrations package) before first
// use.
package relica
