// Package citation extracts formal references to Indonesian legal
// instruments from clause and document text.
package citation

// CitationType classifies the kind of legal instrument a reference points to.
type CitationType string

const (
	TypeUndangUndang        CitationType = "undang-undang"         // UU
	TypePeraturanPemerintah CitationType = "peraturan-pemerintah"  // PP
	TypeKeputusanPresiden   CitationType = "keputusan-presiden"    // Keppres
	TypePeraturanMenteri    CitationType = "peraturan-menteri"     // Permen
	TypePeraturanDaerah     CitationType = "peraturan-daerah"      // Perda
	TypeOther               CitationType = "other"
)

// Citation is one formal legal reference found in text.
type Citation struct {
	Type        CitationType `json:"type"`
	Number      string       `json:"number"`
	Year        string       `json:"year"`
	RawText     string       `json:"raw_text"`
	StartOffset int          `json:"start_offset"`
	EndOffset   int          `json:"end_offset"`
}

// Ref renders the canonical short form, e.g. "UU No. 20 Tahun 2003".
func (c Citation) Ref() string {
	prefix := map[CitationType]string{
		TypeUndangUndang:        "UU",
		TypePeraturanPemerintah: "PP",
		TypeKeputusanPresiden:   "Keppres",
		TypePeraturanMenteri:    "Permen",
		TypePeraturanDaerah:     "Perda",
		TypeOther:               "Peraturan",
	}[c.Type]
	return prefix + " No. " + c.Number + " Tahun " + c.Year
}
