// Package storage provides the bun-backed repositories behind the commerce
// services, plus the database handle that doubles as the transaction runner.
//
// Repositories report absent rows as (nil, nil). Methods with a Tx suffix
// take a bun.IDB handle and participate in the caller's transaction; the
// others run against the pooled connection. The stock decrement is the one
// piece of nontrivial SQL: a conditional UPDATE guarded by the remaining
// quantity, so the database arbitrates concurrent decrements.
//
// SQLite and PostgreSQL are supported; the emitted SQL is portable across
// both dialects.
package storage
