package writer

import "io"

// offsetWriter counts the bytes written through it so page and row group
// offsets can be recorded in the footer.
type offsetWriter struct {
	writer io.Writer
	offset int64
}

func (w *offsetWriter) Write(b []byte) (int, error) {
	n, err := w.writer.Write(b)
	w.offset += int64(n)

	return n, err
}

func (w *offsetWriter) WriteString(s string) (int, error) {
	n, err := io.WriteString(w.writer, s)
	w.offset += int64(n)

	return n, err
}
