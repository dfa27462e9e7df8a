package textutil

import (
	"math"
	"testing"
)

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint(""); fp != nil {
		t.Error("expected nil for empty text")
	}
	if fp := NewFingerprint("a b c x"); fp != nil {
		t.Error("expected nil for text with only single-letter tokens")
	}
}

func TestNewFingerprintNormCalculation(t *testing.T) {
	// hello:2, world:1 -> sqrt(5)
	fp := NewFingerprint("hello hello world")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if math.Abs(fp.norm-math.Sqrt(5)) > 1e-9 {
		t.Errorf("norm = %v, want %v", fp.norm, math.Sqrt(5))
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "Hello World", []string{"hello", "world"}},
		{"drops single letters", "a to the quick fox", []string{"to", "the", "quick", "fox"}},
		{"punctuation", "Hello, World! How are you?", []string{"hello", "world", "how", "are", "you"}},
		{"diacritics folded", "Café Tacvba", []string{"cafe", "tacvba"}},
		{"ampersand expands", "Earth & Fire", []string{"earth", "and", "fire"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize() = %v (len %d), want %v (len %d)", got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFingerprintTokenCount(t *testing.T) {
	tests := []struct {
		name string
		fp   *Fingerprint
		want int
	}{
		{"nil fingerprint", nil, 0},
		{"unique tokens", NewFingerprint("hello world programming"), 3},
		{"repeated tokens", NewFingerprint("hello hello world world world"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fp.TokenCount(); got != tt.want {
				t.Errorf("TokenCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCorpusIDFDownweightsCommonTerms(t *testing.T) {
	corpus := NewCorpus()
	docs := []string{
		"love song artist one",
		"love story artist two",
		"love me do beatles",
		"strobe deadmau5",
	}
	for _, doc := range docs {
		corpus.Add(NewFingerprint(doc))
	}
	idf := corpus.IDF()
	if idf["love"] >= idf["strobe"] {
		t.Fatalf("idf[love] = %v, want below idf[strobe] = %v", idf["love"], idf["strobe"])
	}

	query := NewFingerprint("love strobe").WithIDF(idf)
	strobeDoc := NewFingerprint(docs[3]).WithIDF(idf)
	loveDoc := NewFingerprint(docs[0]).WithIDF(idf)
	if CosineSimilarity(query, strobeDoc) <= CosineSimilarity(query, loveDoc) {
		t.Fatal("expected rare term to dominate weighted similarity")
	}
}

func TestCorpusNil(t *testing.T) {
	var corpus *Corpus
	corpus.Add(NewFingerprint("anything"))
	if corpus.IDF() != nil {
		t.Fatal("expected nil IDF for nil corpus")
	}
	if fp := NewFingerprint("hello world"); fp.WithIDF(nil) != fp {
		t.Fatal("expected WithIDF(nil) to return receiver")
	}
}
