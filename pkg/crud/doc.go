// Package crud implements the persistence lifecycle shared by entity
// controllers: create, read, update, delete with soft-delete and restore,
// status updates, default marking, option bags, and single-field updates.
//
// The Service runs each operation as a fixed pipeline: identifier check,
// uniqueness pre-check over the configured unique columns, default-value
// fill-in, before-hook, exactly one persistence call. A failed step aborts
// before anything is written. On success the Service reports the message
// key and envelope fields for the response; persistence is delegated to a
// Repository collaborator.
package crud
