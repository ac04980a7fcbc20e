package discovery

import (
	"context"
	"testing"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

func TestValidAddress(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"valid 32-byte key", "So11111111111111111111111111111111111111112", true},
		{"empty", "", false},
		{"non-base58 characters", "0OIl!!!", false},
		{"too short", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAddress(tt.addr); got != tt.want {
				t.Errorf("ValidAddress(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestStaticFeed_PollDrains(t *testing.T) {
	feed := NewStaticFeed(
		domain.CandidateToken{Address: "addr1", Symbol: "AAA", DiscoveredAt: 1000},
		domain.CandidateToken{Address: "addr2", Symbol: "BBB", DiscoveredAt: 2000},
	)
	ctx := context.Background()

	got, err := feed.Poll(ctx)
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(got))
	}

	// Second poll is empty.
	got, err = feed.Poll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Expected drained feed, got %d candidates", len(got))
	}

	// Added candidates show up on the next poll.
	feed.Add(domain.CandidateToken{Address: "addr3", Symbol: "CCC", DiscoveredAt: 3000})
	got, err = feed.Poll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Address != "addr3" {
		t.Errorf("Unexpected candidates after Add: %+v", got)
	}
}
