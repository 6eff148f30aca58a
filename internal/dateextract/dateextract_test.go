package dateextract

import (
	"testing"

	"github.com/ecrawler/harvester/internal/pipeline"
)

func TestPublicationDate_FirstMatchWins(t *testing.T) {
	text := "Published on 15 March 2021. Revised 20 April 2022."
	got := PublicationDate(text)
	if got != "15/03/2021" {
		t.Fatalf("expected first date to win, got %q", got)
	}
}

func TestPublicationDate_NumericFormat(t *testing.T) {
	text := "Report filed 2021-03-15 for review."
	got := PublicationDate(text)
	if got != "15/03/2021" {
		t.Fatalf("expected 15/03/2021, got %q", got)
	}
}

func TestPublicationDate_NoMatchReturnsUnknown(t *testing.T) {
	text := "This document contains no temporal references whatsoever."
	got := PublicationDate(text)
	if got != pipeline.UnknownDate {
		t.Fatalf("expected unknown date sentinel, got %q", got)
	}
}

func TestParseCandidate(t *testing.T) {
	if _, ok := parseCandidate("not a date"); ok {
		t.Fatal("expected parse failure for non-date string")
	}
	if _, ok := parseCandidate("March 1, 2020"); !ok {
		t.Fatal("expected parse success for well-formed date string")
	}
}
