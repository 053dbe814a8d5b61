package txfs

// ReadText reads p from fsys as UTF-8 text
func ReadText(fsys FileSystem, p string) (string, error) {
	data, err := fsys.ReadBinary(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText writes s to p in fsys as UTF-8 text
func WriteText(fsys FileSystem, p string, s string) error {
	return fsys.WriteBinary(p, []byte(s))
}
