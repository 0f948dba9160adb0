package domain_test

import (
	"testing"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		from domain.PartyRef
		to   domain.PartyRef
		want domain.TransferKind
	}{
		{
			name: "player to player",
			from: domain.PlayerParty("p1"),
			to:   domain.PlayerParty("p2"),
			want: domain.PlayerToPlayer,
		},
		{
			name: "player to bank",
			from: domain.PlayerParty("p1"),
			to:   domain.BankParty(),
			want: domain.PlayerToBank,
		},
		{
			name: "bank to player",
			from: domain.BankParty(),
			to:   domain.PlayerParty("p1"),
			want: domain.BankToPlayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.from, tt.to))
		})
	}
}

func TestParsePartyRef(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		wantBank bool
		wantErr  bool
	}{
		{name: "bank literal", ref: domain.BankRef, wantBank: true},
		{name: "player id", ref: "0d3adbee-f00d-4b1d-9c0ffee0ddba11ad"},
		{name: "empty reference", ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParsePartyRef(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantBank, got.IsBank())
			assert.Equal(t, tt.ref, got.Ref())
		})
	}
}
