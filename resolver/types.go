package resolver

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ResultKind tags the variant of a Result. The values are the Borsh enum tags.
type ResultKind uint8

const (
	KindResolved ResultKind = 0
	KindMissing  ResultKind = 1
	KindAccount  ResultKind = 2
)

func (k ResultKind) String() string {
	switch k {
	case KindResolved:
		return "Resolved"
	case KindMissing:
		return "Missing"
	case KindAccount:
		return "Account"
	default:
		return fmt.Sprintf("ResultKind(%d)", uint8(k))
	}
}

// AccountMeta is an account reference within an instruction. Signer and writable flags are
// forwarded to the transaction unchanged.
type AccountMeta struct {
	Pubkey     solana.PublicKey `json:"pubkey"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

// SerializableInstruction is a chain-native instruction in transportable form.
type SerializableInstruction struct {
	ProgramID solana.PublicKey `json:"programId"`
	Accounts  []AccountMeta    `json:"accounts"`
	Data      []byte           `json:"data"`
}

// InstructionGroup is a set of instructions sent together in one transaction, along with the
// address lookup tables that transaction should load.
type InstructionGroup struct {
	Instructions        []SerializableInstruction `json:"instructions"`
	AddressLookupTables []solana.PublicKey        `json:"addressLookupTables"`
}

// MissingAccounts lists what the resolver needs before it can make progress.
type MissingAccounts struct {
	Accounts            []solana.PublicKey `json:"accounts"`
	AddressLookupTables []solana.PublicKey `json:"addressLookupTables"`
}

// All returns accounts followed by lookup tables.
func (m MissingAccounts) All() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(m.Accounts)+len(m.AddressLookupTables))
	out = append(out, m.Accounts...)
	return append(out, m.AddressLookupTables...)
}

// Result is the response of one resolver call. Exactly one of Groups or Missing is meaningful,
// chosen by Kind. An Account result carries no payload.
type Result struct {
	Kind    ResultKind         `json:"kind"`
	Groups  []InstructionGroup `json:"groups,omitempty"`
	Missing *MissingAccounts   `json:"missing,omitempty"`
}

func NewResolved(groups ...InstructionGroup) *Result {
	if groups == nil {
		groups = []InstructionGroup{}
	}
	return &Result{Kind: KindResolved, Groups: groups}
}

func NewMissing(accounts, lookupTables []solana.PublicKey) *Result {
	if accounts == nil {
		accounts = []solana.PublicKey{}
	}
	if lookupTables == nil {
		lookupTables = []solana.PublicKey{}
	}
	return &Result{Kind: KindMissing, Missing: &MissingAccounts{Accounts: accounts, AddressLookupTables: lookupTables}}
}

func NewAccountResult() *Result {
	return &Result{Kind: KindAccount}
}

// IsTerminal reports whether the result ends a resolution session.
func (r *Result) IsTerminal() bool {
	return r.Kind != KindMissing
}

func (r *Result) String() string {
	switch r.Kind {
	case KindResolved:
		return fmt.Sprintf("Resolved{groups: %d}", len(r.Groups))
	case KindMissing:
		return fmt.Sprintf("Missing{accounts: %v, addressLookupTables: %v}", r.Missing.Accounts, r.Missing.AddressLookupTables)
	default:
		return r.Kind.String()
	}
}

// SuppliedAccount is an account handed back to the resolver. Accounts that do not exist on chain
// are still supplied, with Exists false, so the resolver does not ask for them again.
type SuppliedAccount struct {
	Pubkey   solana.PublicKey `json:"pubkey"`
	Exists   bool             `json:"exists"`
	Owner    solana.PublicKey `json:"owner"`
	Lamports uint64           `json:"lamports"`
	Data     []byte           `json:"data"`
}

// Context is the set of accounts and lookup tables accumulated during a session. It only grows.
type Context struct {
	Accounts            []SuppliedAccount `json:"accounts"`
	AddressLookupTables []SuppliedAccount `json:"addressLookupTables"`
}

// Find looks up a supplied account or lookup table by key.
func (c *Context) Find(pubkey solana.PublicKey) (*SuppliedAccount, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Accounts {
		if c.Accounts[i].Pubkey == pubkey {
			return &c.Accounts[i], true
		}
	}
	for i := range c.AddressLookupTables {
		if c.AddressLookupTables[i].Pubkey == pubkey {
			return &c.AddressLookupTables[i], true
		}
	}
	return nil, false
}

// Keys returns every supplied key, accounts first, in insertion order.
func (c *Context) Keys() []solana.PublicKey {
	if c == nil {
		return nil
	}
	out := make([]solana.PublicKey, 0, len(c.Accounts)+len(c.AddressLookupTables))
	for _, a := range c.Accounts {
		out = append(out, a.Pubkey)
	}
	for _, a := range c.AddressLookupTables {
		out = append(out, a.Pubkey)
	}
	return out
}

// Len is the number of supplied keys.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Accounts) + len(c.AddressLookupTables)
}

// Clone returns a copy that can be extended without affecting c.
func (c *Context) Clone() *Context {
	if c == nil {
		return &Context{}
	}
	out := &Context{
		Accounts:            make([]SuppliedAccount, len(c.Accounts)),
		AddressLookupTables: make([]SuppliedAccount, len(c.AddressLookupTables)),
	}
	copy(out.Accounts, c.Accounts)
	copy(out.AddressLookupTables, c.AddressLookupTables)
	return out
}

// ToSolana converts to a solana-go instruction.
func (i SerializableInstruction) ToSolana() *solana.GenericInstruction {
	metas := make(solana.AccountMetaSlice, 0, len(i.Accounts))
	for _, a := range i.Accounts {
		metas = append(metas, solana.NewAccountMeta(a.Pubkey, a.IsWritable, a.IsSigner))
	}
	return solana.NewInstruction(i.ProgramID, metas, i.Data)
}

// Placeholder keys a resolver puts in instructions for values only the executor knows. The
// executor substitutes its fee payer and the posted VAA account before signing.
var (
	PlaceholderPayer     = solana.MustPublicKeyFromBase58("payer11111111111111111111111111111111111111")
	PlaceholderPostedVAA = solana.MustPublicKeyFromBase58("postedVaa1111111111111111111111111111111111")
)
