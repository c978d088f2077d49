package document

import "time"

// Sample returns the bilingual demo document shown on first launch.
func Sample() *Document {
	now := time.Now()
	run := func(text, lang string) TextRun {
		dir := DirLTR
		if lang == "ar" || lang == "fa" || lang == "ur" {
			dir = DirRTL
		}
		return TextRun{Text: text, Lang: lang, Direction: dir}
	}
	return &Document{
		Version: "1.0",
		Metadata: Metadata{
			Title:    "PDX Demo Document",
			Author:   "PDX Editor",
			Language: "en",
			Created:  now,
			Modified: now,
			Keywords: []string{"pdx", "document", "مستند"},
		},
		Styles: DefaultStyleSheet(),
		Content: &Sequence{Children: []Node{
			&Heading{Level: 1, Runs: []TextRun{run("Welcome to PDX Editor", "en")}},
			&Paragraph{Runs: []TextRun{run(
				"PDX is a modern document format with full Arabic support, real PDF/PNG export, and a comfortable theme for long writing sessions.",
				"en")}},
			&Divider{},
			&Heading{Level: 2, Runs: []TextRun{run("مرحباً بك في محرر PDX", "ar")}},
			&Paragraph{Runs: []TextRun{run(
				"هذا المحرر يدعم اللغة العربية بشكل كامل مع الكتابة من اليمين إلى اليسار. يمكنك كتابة المستندات بالعربية بسهولة تامة.",
				"ar")}},
			&Divider{},
			&Heading{Level: 2, Runs: []TextRun{run("New Features - المميزات الجديدة", "en")}},
			&List{Ordered: false, Items: [][]TextRun{
				{run("Real PDF export with Arabic font embedding", "en")},
				{run("PNG image export for sharing", "en")},
				{run("Image embedding support in documents", "en")},
				{run("Comfort theme - optimized for long writing sessions", "en")},
			}},
		}},
		Resources: NewResources(nil),
	}
}
