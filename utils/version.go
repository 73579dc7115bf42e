package utils

// REVISION identifies the running build in API response envelopes.
const REVISION = "v1.4.2"
