package docops

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makePDF builds an n-page document whose page i reads "Page i"
func makePDF(t *testing.T, n int) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 14)
	for i := 1; i <= n; i++ {
		doc.AddPage()
		doc.Text(72, 72, fmt.Sprintf("Page %d", i))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func pageTexts(t *testing.T, data []byte) []string {
	t.Helper()
	texts, err := extractPDFText(data)
	require.NoError(t, err)
	return texts
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	f, ok := AsFailure(err)
	require.True(t, ok, "not a *Failure: %v", err)
	assert.Equal(t, kind, f.Kind, err.Error())
}

func TestParsePageRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges string
		total  int
		want   []int
		kind   Kind
	}{
		{name: "mixed", ranges: "1-3,5", total: 10, want: []int{1, 2, 3, 5}},
		{name: "spaces", ranges: " 2 , 4-5 ", total: 5, want: []int{2, 4, 5}},
		{name: "keeps order", ranges: "5,1", total: 5, want: []int{5, 1}},
		{name: "empty is all", ranges: "", total: 3, want: []int{1, 2, 3}},
		{name: "single range", ranges: "2-2", total: 2, want: []int{2}},
		{name: "out of bounds", ranges: "20", total: 5, kind: KindPageOutOfBounds},
		{name: "range past end", ranges: "4-9", total: 5, kind: KindPageOutOfBounds},
		{name: "zero", ranges: "0", total: 5, kind: KindPageOutOfBounds},
		{name: "letters", ranges: "a-b", total: 5, kind: KindMalformedRange},
		{name: "descending", ranges: "3-1", total: 5, kind: KindMalformedRange},
		{name: "empty item", ranges: "1,,2", total: 5, kind: KindMalformedRange},
		{name: "open range", ranges: "2-", total: 5, kind: KindMalformedRange},
		{name: "word", ranges: "first", total: 5, kind: KindMalformedRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRanges(tt.ranges, tt.total)
			if tt.kind != 0 {
				requireKind(t, err, tt.kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageRanges_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("in-bounds page lists parse back unchanged", prop.ForAll(
		func(pages []int) bool {
			parts := make([]string, len(pages))
			for i, p := range pages {
				parts[i] = strconv.Itoa(p)
			}
			got, err := ParsePageRanges(strings.Join(parts, ","), 50)
			if err != nil {
				return false
			}
			if len(got) != len(pages) {
				return false
			}
			for i := range got {
				if got[i] != pages[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.IntRange(1, 50)),
	))

	properties.Property("a-b expands to b-a+1 pages", prop.ForAll(
		func(a, span int) bool {
			b := a + span
			if b > 60 {
				b = 60
			}
			got, err := ParsePageRanges(fmt.Sprintf("%d-%d", a, b), 60)
			return err == nil && len(got) == b-a+1 && got[0] == a && got[len(got)-1] == b
		},
		gen.IntRange(1, 60),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestMerge(t *testing.T) {
	a := makePDF(t, 2)
	b := makePDF(t, 3)

	out, err := Merge([][]byte{a, b})
	require.NoError(t, err)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMerge_Failures(t *testing.T) {
	_, err := Merge([][]byte{makePDF(t, 1)})
	requireKind(t, err, KindTooFewInputs)

	_, err = Merge(nil)
	requireKind(t, err, KindTooFewInputs)

	_, err = Merge([][]byte{makePDF(t, 1), []byte("not a pdf")})
	requireKind(t, err, KindInvalidDocument)
}

func TestSplit(t *testing.T) {
	src := makePDF(t, 10)

	res, err := Split(src, "1-3,5")
	require.NoError(t, err)
	assert.Equal(t, 10, res.TotalPages)
	assert.Equal(t, []int{1, 2, 3, 5}, res.Pages)

	texts := pageTexts(t, res.Data)
	require.Len(t, texts, 4)
	for i, want := range []string{"Page 1", "Page 2", "Page 3", "Page 5"} {
		assert.Contains(t, texts[i], want)
	}
}

func TestSplit_Failures(t *testing.T) {
	src := makePDF(t, 5)

	_, err := Split(src, "20")
	requireKind(t, err, KindPageOutOfBounds)

	_, err = Split(src, "a-b")
	requireKind(t, err, KindMalformedRange)

	_, err = Split([]byte("%PDF-1.4 garbage"), "1")
	requireKind(t, err, KindInvalidDocument)
}

func TestRotate(t *testing.T) {
	src := makePDF(t, 2)

	tests := []struct {
		degrees int
		want    int64
	}{
		{90, 90},
		{180, 180},
		{-90, 270},
		{450, 90},
	}
	for _, tt := range tests {
		out, err := Rotate(src, tt.degrees)
		require.NoError(t, err, tt.degrees)

		r, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
		require.NoError(t, err)
		require.Equal(t, 2, r.NumPage())
		for i := 1; i <= 2; i++ {
			assert.Equal(t, tt.want, r.Page(i).V.Key("Rotate").Int64(), "degrees %d page %d", tt.degrees, i)
		}
	}

	out, err := Rotate(src, 360)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestRotate_Failures(t *testing.T) {
	_, err := Rotate(makePDF(t, 1), 45)
	requireKind(t, err, KindInvalidRotation)

	_, err = Rotate([]byte("nope"), 90)
	requireKind(t, err, KindInvalidDocument)
}

func TestCompress(t *testing.T) {
	src := makePDF(t, 3)

	res, err := Compress(src)
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), res.OriginalSize)
	assert.Equal(t, int64(len(res.Data)), res.CompressedSize)
	assert.Equal(t, Reduction(res.OriginalSize, res.CompressedSize), res.Reduction)

	n, err := PageCount(res.Data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReduction(t *testing.T) {
	assert.Equal(t, 50.0, Reduction(200, 100))
	assert.Equal(t, 33.33, Reduction(3, 2))
	assert.Equal(t, -10.0, Reduction(100, 110))
	assert.Equal(t, 0.0, Reduction(0, 10))
}

func TestSecure(t *testing.T) {
	src := makePDF(t, 3)

	out, err := Secure(src, "s3cret")
	require.NoError(t, err)

	// without the password the document cannot be opened
	_, err = api.PageCount(bytes.NewReader(out), newConfig())
	assert.Error(t, err)

	conf := newConfig()
	conf.UserPW = "s3cret"
	conf.OwnerPW = "s3cret"
	n, err := api.PageCount(bytes.NewReader(out), conf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSecure_Failures(t *testing.T) {
	_, err := Secure(makePDF(t, 1), "")
	requireKind(t, err, KindMissingPassword)

	_, err = Secure([]byte("nope"), "pw")
	requireKind(t, err, KindInvalidDocument)
}

func TestConvert_PDFToDocx(t *testing.T) {
	out, err := Convert(makePDF(t, 2), "pdf", "docx")
	require.NoError(t, err)

	paragraphs, err := readDocxParagraphs(out)
	require.NoError(t, err)
	joined := strings.Join(paragraphs, "\n")
	assert.Contains(t, joined, "Page 1")
	assert.Contains(t, joined, "Page 2")
}

func TestConvert_DocxToPDF(t *testing.T) {
	docx, err := writeDocx([]string{"Hello world\n\nSecond <paragraph> & more"})
	require.NoError(t, err)

	paragraphs, err := readDocxParagraphs(docx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world", "", "Second <paragraph> & more"}, paragraphs)

	out, err := Convert(docx, "DOCX", "pdf")
	require.NoError(t, err)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, pageTexts(t, out)[0], "Hello world")
}

func TestConvert_LongDocumentPaginates(t *testing.T) {
	lines := make([]string, 120)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	docx, err := writeDocx([]string{strings.Join(lines, "\n")})
	require.NoError(t, err)

	out, err := Convert(docx, "docx", "pdf")
	require.NoError(t, err)
	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Greater(t, n, 1)
}

func TestConvert_Failures(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		src    string
		target string
		kind   Kind
	}{
		{"txt to pdf", []byte("hello"), "txt", "pdf", KindUnsupported},
		{"pdf to pdf", makePDF(t, 1), "pdf", "pdf", KindUnsupported},
		{"docx to pptx", []byte("x"), "docx", "pptx", KindUnsupported},
		{"legacy binary doc", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, "doc", "pdf", KindInvalidDocument},
		{"broken pdf", []byte("%PDF-1.7 nothing"), "pdf", "docx", KindInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.input, tt.src, tt.target)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestKind(t *testing.T) {
	assert.False(t, KindInvalidDocument.IsValidation())
	for _, k := range []Kind{KindTooFewInputs, KindMalformedRange, KindPageOutOfBounds, KindInvalidRotation, KindMissingPassword, KindUnsupported} {
		assert.True(t, k.IsValidation(), k.String())
	}
	assert.Equal(t, "kind(99)", Kind(99).String())

	err := failf(OpSplit, KindMalformedRange, "%q", "x")
	assert.Equal(t, `split: malformed range: "x"`, err.Error())
}
