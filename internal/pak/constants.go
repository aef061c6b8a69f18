package pak

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Magic identifies valid PAK archives ("PAK1" read as a little-endian uint32).
const Magic uint32 = 0x314B4150

// Version is the only supported table format version.
const Version uint32 = 1

// Separator joins name components into virtual paths.
const Separator = "/"

// EncodingForRegion returns the legacy code-page decoder used for entry
// names in archives shipped for the given game region.
func EncodingForRegion(region string) (encoding.Encoding, error) {
	switch region {
	case "kr":
		return korean.EUCKR, nil
	case "jp":
		return japanese.ShiftJIS, nil
	case "cn":
		return simplifiedchinese.GBK, nil
	case "tw":
		return traditionalchinese.Big5, nil
	default:
		return nil, fmt.Errorf("unknown game region: %s", region)
	}
}
