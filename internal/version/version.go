package version

// Version is overridden at build time with -ldflags "-X".
var Version = "1.0.0"
