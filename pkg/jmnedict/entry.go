// Package jmnedict reads the JMnedict artifacts written by jmnedict-fetch. Entries
// are decoded lazily, one batch at a time, so the dictionary never has to fit in
// memory.
//
//	for e, err := range jmnedict.Stream(ctx, os.DirFS(dir)) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(e.Seq, e.Headword())
//	}
package jmnedict

import "encoding/xml"

// Entry is one name record. Field order follows the content model
// (ent_seq, k_ele*, r_ele+, trans+)
type Entry struct {
	XMLName      xml.Name         `xml:"entry" json:"-"`
	Seq          int              `xml:"ent_seq" json:"seq"`
	Kanji        []KanjiElement   `xml:"k_ele" json:"kanji,omitempty"`
	Readings     []ReadingElement `xml:"r_ele" json:"readings"`
	Translations []Translation    `xml:"trans" json:"translations"`
}

// KanjiElement is a written form of the name
type KanjiElement struct {
	Text     string   `xml:"keb" json:"text"`
	Info     []string `xml:"ke_inf" json:"info,omitempty"`
	Priority []string `xml:"ke_pri" json:"priority,omitempty"`
}

// ReadingElement is a kana reading. Restrictions name the kanji elements the
// reading applies to; empty means all of them
type ReadingElement struct {
	Text         string   `xml:"reb" json:"text"`
	Restrictions []string `xml:"re_restr" json:"restrictions,omitempty"`
	Info         []string `xml:"re_inf" json:"info,omitempty"`
	Priority     []string `xml:"re_pri" json:"priority,omitempty"`
}

// Translation groups the name types and translated forms of one sense.
// NameTypes hold expanded entity text such as "family or surname"
type Translation struct {
	NameTypes []string            `xml:"name_type" json:"name_types,omitempty"`
	XRefs     []string            `xml:"xref" json:"xrefs,omitempty"`
	Details   []TranslationDetail `xml:"trans_det" json:"details,omitempty"`
}

// TranslationDetail is one translated form; Lang defaults to "eng"
type TranslationDetail struct {
	Lang string `xml:"xml:lang,attr" json:"lang"`
	Text string `xml:",chardata" json:"text"`
}

// Headword is the first kanji form, or the first reading for kana-only names
func (e Entry) Headword() string {
	if len(e.Kanji) > 0 {
		return e.Kanji[0].Text
	}
	if len(e.Readings) > 0 {
		return e.Readings[0].Text
	}
	return ""
}

// Glosses returns every translated form in lang, in document order
func (e Entry) Glosses(lang string) []string {
	var out []string
	for _, t := range e.Translations {
		for _, d := range t.Details {
			if d.Lang == lang {
				out = append(out, d.Text)
			}
		}
	}
	return out
}

// NameTypes returns the distinct name types of the entry in first-seen order
func (e Entry) NameTypes() []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range e.Translations {
		for _, n := range t.NameTypes {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
