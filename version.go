package robottools

// Version is the module version, overridable at build time via -ldflags.
var Version = "0.1.0"
