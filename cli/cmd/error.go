package cmd

import (
	"github.com/ardnew/benchdl/lang"
)

// Command errors share [lang.Error] so that main logs their attributes.
var (
	ErrJSONMarshal   = lang.NewError("marshal JSON")
	ErrYAMLMarshal   = lang.NewError("marshal YAML")
	ErrWriteConfig   = lang.NewError("write configuration file")
	ErrWriteBench    = lang.NewError("write bench file")
	ErrFileExists    = lang.NewError("file exists (use --force to overwrite)")
	ErrCheckFailed   = lang.NewError("check failed")
	ErrInvalidFilter = lang.NewError("invalid --where expression")
	ErrWatch         = lang.NewError("watch files")
	ErrNotWritable   = lang.NewError("cannot write results back to this source")
)
