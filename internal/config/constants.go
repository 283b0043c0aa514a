package config

// File extensions handled by the compiler.
const (
	SourceFileExt = ".trb"  // typed Ruby source
	RubyFileExt   = ".rb"   // erased Ruby output
	RBSFileExt    = ".rbs"  // projected signature output
	DeclsFileExt  = ".trbd" // full-fidelity declaration output
)
