package domain

// DefaultKeyPrefix namespaces every key fieldaim writes to the store.
const DefaultKeyPrefix = "fieldaim:"
