package domain

import "errors"

// Sentinel errors corresponding to the error taxonomy: callers use errors.Is
// against these, while the wrapping fmt.Errorf call at the call site still
// carries the offending path and the underlying OS error message.
var (
	ErrFileNotUTF8        = errors.New("file is not valid UTF-8")
	ErrFileParseFail      = errors.New("file could not be opened for reading")
	ErrFileWriteFail      = errors.New("file could not be opened for writing")
	ErrFileRenameFail     = errors.New("file rename failed")
	ErrTimestampReadFail  = errors.New("modification time read failed")
	ErrTimestampWriteFail = errors.New("modification time write failed")
	ErrInvalidArgs        = errors.New("invalid arguments")

	ErrPluginNotFound  = errors.New("plugin not found")
	ErrNotSynchronised = errors.New("loadorder.txt and plugins.txt disagree")
)

// Warning is a non-fatal diagnostic returned alongside a successful
// operation. BAD_FILENAME is the only warning kind the spec defines: a
// Save that could not transcode one or more plugin names still writes the
// file and reports the problem names here instead of aborting.
type Warning struct {
	Kind  string
	Names []string
}

func (w *Warning) Error() string {
	if w == nil {
		return ""
	}
	return w.Kind + ": " + joinNames(w.Names)
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

// WarnBadFilename builds the BAD_FILENAME warning for the given plugin
// names that could not be transcoded to Windows-1252 on save.
func WarnBadFilename(names []string) *Warning {
	if len(names) == 0 {
		return nil
	}
	return &Warning{Kind: "BAD_FILENAME", Names: names}
}
