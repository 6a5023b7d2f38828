package utils

// Box takes the address of a value produced inline, so call sites can
// return a pointer without a named local (e.g. Parser.consume's *Token).
func Box[T any](t T) *T { return &t }
