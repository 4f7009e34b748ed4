package output

import "io"

// OutputData encodes data for JSON and YAML, otherwise calls the text function
func (f *Formatter) OutputData(data any, textFn func(w io.Writer) error) error {
	switch f.format {
	case FormatJSON:
		return f.JSON(data)
	case FormatYAML:
		return f.YAML(data)
	default:
		return textFn(f.writer)
	}
}
