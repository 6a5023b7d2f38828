package debug

// DEBUG gates disassembly and stack-trace logging in the compiler and
// VM. The CLI driver flips it on when run with debug-level verbosity;
// tests leave it at its zero value.
var DEBUG = false
