package mock

// KeyDeriver returns a fixed key and remembers what it was asked.
type KeyDeriver struct {
	Out string
	Err error

	Called   bool
	Filename string
}

func (m *KeyDeriver) Derive(filename string) (string, error) {
	m.Called = true
	m.Filename = filename
	if m.Err != nil {
		return "", m.Err
	}
	if m.Out != "" {
		return m.Out, nil
	}
	return filename + "-1700000000000", nil
}
