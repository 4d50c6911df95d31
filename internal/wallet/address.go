package wallet

// ShortenAddress keeps size hex characters on each side, e.g. 0x1234...cdef.
func ShortenAddress(address string, size int) string {
	if size <= 0 {
		size = 4
	}
	if len(address) <= 2+2*size {
		return address
	}
	return address[:2+size] + "..." + address[len(address)-size:]
}
