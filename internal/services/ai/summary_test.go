package ai

import (
	"context"
	"testing"

	"github.com/kizuna-chat/kizuna-server/internal/models"
)

func TestMaybeSummarize_BelowThreshold(t *testing.T) {
	gw := &stubGateway{available: true, payloads: map[ModelTier]string{TierSummary: summaryOK}}
	s := NewSummarizer(gw, NewRegistry(), testLogger())

	for _, n := range []int{0, 1, SummaryThreshold - 1} {
		// A prior summary does not lower the threshold.
		if got := s.MaybeSummarize(context.Background(), makeContext(n), "prior", models.LangVietnamese); got != nil {
			t.Errorf("context length %d: got summary, want nil", n)
		}
	}
	if len(gw.calls) != 0 {
		t.Errorf("gateway called %d times below threshold, want 0", len(gw.calls))
	}
}

func TestMaybeSummarize_AtThreshold(t *testing.T) {
	gw := &stubGateway{available: true, payloads: map[ModelTier]string{TierSummary: summaryOK}}
	s := NewSummarizer(gw, NewRegistry(), testLogger())

	got := s.MaybeSummarize(context.Background(), makeContext(SummaryThreshold), "", models.LangVietnamese)
	if got == nil {
		t.Fatal("got nil at threshold")
	}
	if got.MessageCount != SummaryThreshold {
		t.Errorf("MessageCount = %d, want %d", got.MessageCount, SummaryThreshold)
	}
	if len(gw.calls) != 1 || gw.calls[0].tier != TierSummary {
		t.Fatalf("unexpected gateway calls: %+v", gw.calls)
	}
	if gw.calls[0].schema.Name != string(SchemaSummary) {
		t.Errorf("schema = %q", gw.calls[0].schema.Name)
	}
}

func TestMaybeSummarize_MessageCountTracksSuppliedContext(t *testing.T) {
	// Regenerating with a larger window replaces the count, it does not
	// accumulate.
	gw := &stubGateway{available: true, payloads: map[ModelTier]string{TierSummary: summaryOK}}
	s := NewSummarizer(gw, NewRegistry(), testLogger())

	first := s.MaybeSummarize(context.Background(), makeContext(10), "", models.LangVietnamese)
	second := s.MaybeSummarize(context.Background(), makeContext(25), first.Summary, models.LangVietnamese)

	if first.MessageCount != 10 || second.MessageCount != 25 {
		t.Errorf("MessageCounts = %d, %d; want 10, 25", first.MessageCount, second.MessageCount)
	}
}

func TestMaybeSummarize_FailureReturnsNil(t *testing.T) {
	cases := map[string]*stubGateway{
		"not configured":   {available: false, err: newInvocationError(KindNotConfigured, "test", nil)},
		"provider error":   {available: true, err: newInvocationError(KindProvider, "test", nil)},
		"schema violation": {available: true, err: newInvocationError(KindSchemaViolation, "test", nil)},
	}
	for name, gw := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewSummarizer(gw, NewRegistry(), testLogger())
			if got := s.MaybeSummarize(context.Background(), makeContext(SummaryThreshold), "", models.LangVietnamese); got != nil {
				t.Errorf("got %+v, want nil", got)
			}
		})
	}
}
