package crypto

// Zero scrubs key material from a byte slice once a cipher operation is
// done with it.
func Zero(b []byte) {
	clear(b)
}
