package domain

import "fmt"

// BankRef is the symbolic wire value for the Bank side of a transfer.
// The Bank is not a stored player; transfers to or from it never check or
// mutate a stored balance for that side.
const BankRef = "BANK"

// PartyRef identifies one side of a transfer: either a real player account
// or the symbolic Bank. The zero value is invalid.
type PartyRef struct {
	playerID string
	bank     bool
}

// BankParty returns the PartyRef for the symbolic Bank.
func BankParty() PartyRef {
	return PartyRef{bank: true}
}

// PlayerParty returns the PartyRef for a real player account.
func PlayerParty(playerID string) PartyRef {
	return PartyRef{playerID: playerID}
}

// ParsePartyRef converts a wire reference (player id or "BANK") into a PartyRef.
func ParsePartyRef(ref string) (PartyRef, error) {
	if ref == BankRef {
		return BankParty(), nil
	}
	if ref == "" {
		return PartyRef{}, fmt.Errorf("empty party reference")
	}
	return PlayerParty(ref), nil
}

// IsBank reports whether the reference is the symbolic Bank.
func (p PartyRef) IsBank() bool { return p.bank }

// PlayerID returns the player id for a non-Bank reference.
func (p PartyRef) PlayerID() string { return p.playerID }

// Ref returns the wire representation: the player id, or "BANK".
func (p PartyRef) Ref() string {
	if p.bank {
		return BankRef
	}
	return p.playerID
}

// Equal reports whether two references identify the same party.
func (p PartyRef) Equal(o PartyRef) bool {
	return p.bank == o.bank && p.playerID == o.playerID
}
