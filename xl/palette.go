package xl

// Legacy palette indices with special meaning.
const (
	IndexBlack             = 8
	IndexWhite             = 9
	IndexSystemForeground  = 64
	IndexSystemBackground  = 65
	DefaultForegroundIndex = IndexBlack
)

// legacyPalette is the default BIFF8 color palette. Entries 0-7 duplicate
// the first eight of 8-63; 64 and 65 are the system window text and
// window background colors.
var legacyPalette = [...]string{
	"000000", "FFFFFF", "FF0000", "00FF00", "0000FF", "FFFF00", "FF00FF", "00FFFF",
	"000000", "FFFFFF", "FF0000", "00FF00", "0000FF", "FFFF00", "FF00FF", "00FFFF",
	"800000", "008000", "000080", "808000", "800080", "008080", "C0C0C0", "808080",
	"9999FF", "993366", "FFFFCC", "CCFFFF", "660066", "FF8080", "0066CC", "CCCCFF",
	"000080", "FF00FF", "FFFF00", "00FFFF", "800080", "800000", "008080", "0000FF",
	"00CCFF", "CCFFFF", "CCFFCC", "FFFF99", "99CCFF", "FF99CC", "CC99FF", "FFCC99",
	"3366FF", "33CCCC", "99CC00", "FFCC00", "FF9900", "FF6600", "666699", "969696",
	"003366", "339966", "003300", "333300", "993300", "993366", "333399", "333333",
	"000000", "FFFFFF",
}

// PaletteRGB returns the RGB hex of a legacy palette entry.
func PaletteRGB(index int) (string, error) {
	if index < 0 || index >= len(legacyPalette) {
		return "", ErrIndexOutOfRange
	}
	return legacyPalette[index], nil
}

// NearestIndex returns the palette index in 8..63 closest to rgb.
// Ties go to the lowest index.
func NearestIndex(rgb [3]int) int {
	best, bestDist := -1, 0
	for i := 8; i < 64; i++ {
		p := hexTriple(legacyPalette[i])
		dr, dg, db := p[0]-rgb[0], p[1]-rgb[1], p[2]-rgb[2]
		d := dr*dr + dg*dg + db*db
		if best < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// hexTriple decodes a validated 6 digit hex string.
func hexTriple(s string) [3]int {
	var t [3]int
	for i := range 3 {
		t[i] = hexNibble(s[2*i])<<4 | hexNibble(s[2*i+1])
	}
	return t
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
