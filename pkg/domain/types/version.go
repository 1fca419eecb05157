package types

// Version is the webship release version
const Version = "0.1.0"
