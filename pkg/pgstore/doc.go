// Package pgstore provides a PostgreSQL-backed crud.Repository on top of
// pgx connection pooling.
//
// Entities are stored schemalessly: a bigserial internal id, a public
// uuid, and a jsonb data column carrying the field set. Option bags live
// in a companion key/value table. Open establishes the pool with startup
// retries and environment-based configuration.
//
// Expected schema:
//
//	CREATE TABLE items (
//	    id   BIGSERIAL PRIMARY KEY,
//	    uuid TEXT NOT NULL UNIQUE,
//	    data JSONB NOT NULL DEFAULT '{}'
//	);
//
//	CREATE TABLE items_options (
//	    reference_id BIGINT NOT NULL,
//	    key          TEXT NOT NULL,
//	    value        JSONB NOT NULL,
//	    PRIMARY KEY (reference_id, key)
//	);
package pgstore
