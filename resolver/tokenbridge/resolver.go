// Package tokenbridge resolves Token Bridge transfer-with-payload VAAs for the token bridge
// relayer program without touching the chain. It derives the same accounts the program's
// resolving entrypoint derives and is used for dry runs, tests and as an offline fallback.
package tokenbridge

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
)

var _ resolver.Resolver = (*Resolver)(nil)

const (
	completeNativeInstruction  = "complete_native_transfer_with_relay"
	completeWrappedInstruction = "complete_wrapped_transfer_with_relay"

	lutAccountName = "LUT"
	// discriminator, bump, address
	lutAccountLength = 8 + 1 + solana.PublicKeyLength
)

var (
	seedRedeemer      = []byte("redeemer")
	seedConfig        = []byte("config")
	seedTmp           = []byte("tmp")
	seedLUT           = []byte("lut")
	seedCustodySigner = []byte("custody_signer")
	seedWrapped       = []byte("wrapped")
	seedMeta          = []byte("meta")
	seedMintSigner    = []byte("mint_signer")
)

type Config struct {
	RelayerProgramID     solana.PublicKey
	TokenBridgeProgramID solana.PublicKey
	WormholeProgramID    solana.PublicKey
	// OurChain is the chain id of the destination. Tokens native to it are released from custody,
	// all others are minted as wrapped tokens.
	OurChain protocol.ChainID
}

// MainnetConfig returns the Solana mainnet program ids.
func MainnetConfig() Config {
	return Config{
		RelayerProgramID:     solana.MustPublicKeyFromBase58("tbr7Qje6qBzPwfM52csL5KFi8ps5c5vDyiVVBLYVdRf"),
		TokenBridgeProgramID: solana.MustPublicKeyFromBase58("wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb"),
		WormholeProgramID:    solana.MustPublicKeyFromBase58("worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth"),
		OurChain:             protocol.ChainIDSolana,
	}
}

// Resolver mirrors the relayer program's resolving entrypoint. Resolution takes up to four
// rounds: the mint, the program's lookup table pointer, the lookup table itself, then the
// resolved instruction.
type Resolver struct {
	lggr logger.Logger
	cfg  Config
}

func NewResolver(lggr logger.Logger, cfg Config) *Resolver {
	return &Resolver{lggr: logger.Named(lggr, "TokenBridgeResolver"), cfg: cfg}
}

func (r *Resolver) Resolve(_ context.Context, message []byte, rctx *resolver.Context) (*resolver.Result, error) {
	body, err := protocol.ParseVAABody(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", resolver.ErrUnresolvable, err)
	}
	transfer, err := protocol.ParseTransferWithMessage(body.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", resolver.ErrUnresolvable, err)
	}
	if len(transfer.Payload) < solana.PublicKeyLength {
		return nil, fmt.Errorf("%w: transfer payload is %d bytes, recipient needs %d", resolver.ErrUnresolvable, len(transfer.Payload), solana.PublicKeyLength)
	}
	recipient := solana.PublicKeyFromBytes(transfer.Payload[:solana.PublicKeyLength])

	native := transfer.TokenChain == r.cfg.OurChain
	var mint solana.PublicKey
	if native {
		mint = solana.PublicKeyFromBytes(transfer.TokenAddress[:])
	} else {
		mint = r.pda(r.cfg.TokenBridgeProgramID, seedWrapped, chainSeed(transfer.TokenChain), transfer.TokenAddress[:])
	}

	mintAccount, ok := rctx.Find(mint)
	if !ok {
		return resolver.NewMissing([]solana.PublicKey{mint}, nil), nil
	}
	if !mintAccount.Exists {
		return nil, fmt.Errorf("%w: mint %s does not exist", resolver.ErrUnresolvable, mint)
	}

	tables, missing, err := r.lookupTables(rctx)
	if err != nil {
		return nil, err
	}
	if missing != nil {
		return missing, nil
	}

	accounts := r.sharedAccounts(body)
	tokenProgram := mintAccount.Owner
	ata := AssociatedTokenAddress(recipient, mint, tokenProgram)
	tmp := r.pda(r.cfg.RelayerProgramID, seedTmp, mint[:])

	var (
		name  string
		metas []resolver.AccountMeta
	)
	if native {
		name = completeNativeInstruction
		metas = []resolver.AccountMeta{
			writableSigner(resolver.PlaceholderPayer),
			readonly(accounts.redeemer),
			readonly(mint),
			writable(ata),
			writable(recipient),
			writable(tmp),
			readonly(accounts.config),
			readonly(resolver.PlaceholderPostedVAA),
			writable(accounts.claim),
			readonly(accounts.foreignEndpoint),
			writable(r.pda(r.cfg.TokenBridgeProgramID, mint[:])),
			readonly(r.pda(r.cfg.TokenBridgeProgramID, seedCustodySigner)),
		}
	} else {
		name = completeWrappedInstruction
		metas = []resolver.AccountMeta{
			writableSigner(resolver.PlaceholderPayer),
			readonly(accounts.redeemer),
			readonly(mint),
			writable(ata),
			writable(recipient),
			writable(tmp),
			readonly(r.pda(r.cfg.TokenBridgeProgramID, seedMeta, mint[:])),
			readonly(accounts.config),
			readonly(resolver.PlaceholderPostedVAA),
			writable(accounts.claim),
			readonly(accounts.foreignEndpoint),
			writable(r.pda(r.cfg.TokenBridgeProgramID, seedMintSigner)),
		}
	}
	metas = append(metas,
		readonly(r.cfg.WormholeProgramID),
		readonly(r.cfg.TokenBridgeProgramID),
		readonly(tokenProgram),
		readonly(solana.SPLAssociatedTokenAccountProgramID),
		readonly(solana.SystemProgramID),
		readonly(solana.SysVarRentPubkey),
	)

	vaaHash := protocol.Keccak256(message)
	data := make([]byte, 0, 8+len(vaaHash))
	data = append(data, bin.Sighash(bin.SIGHASH_GLOBAL_NAMESPACE, name)...)
	data = append(data, vaaHash[:]...)

	r.lggr.Debugw("Resolved transfer",
		"native", native,
		"mint", mint,
		"recipient", recipient,
		"emitterChain", uint16(body.EmitterChain),
		"sequence", body.Sequence)

	return resolver.NewResolved(resolver.InstructionGroup{
		Instructions: []resolver.SerializableInstruction{{
			ProgramID: r.cfg.RelayerProgramID,
			Accounts:  metas,
			Data:      data,
		}},
		AddressLookupTables: tables,
	}), nil
}

// lookupTables walks the lookup table rounds. It returns a Missing result while something is
// still needed, otherwise the tables to attach to the group.
func (r *Resolver) lookupTables(rctx *resolver.Context) ([]solana.PublicKey, *resolver.Result, error) {
	pointer := LUTAddress(r.cfg.RelayerProgramID)
	acc, ok := rctx.Find(pointer)
	if !ok {
		return nil, resolver.NewMissing([]solana.PublicKey{pointer}, nil), nil
	}
	if !acc.Exists {
		return []solana.PublicKey{}, nil, nil
	}

	state, err := DecodeLUT(acc.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", resolver.ErrUnresolvable, err)
	}
	table, ok := rctx.Find(state.Address)
	if !ok {
		return nil, resolver.NewMissing(nil, []solana.PublicKey{state.Address}), nil
	}
	if !table.Exists {
		return []solana.PublicKey{}, nil, nil
	}
	return []solana.PublicKey{state.Address}, nil, nil
}

type sharedAccounts struct {
	redeemer        solana.PublicKey
	config          solana.PublicKey
	claim           solana.PublicKey
	foreignEndpoint solana.PublicKey
}

func (r *Resolver) sharedAccounts(body *protocol.VAABody) sharedAccounts {
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, body.Sequence)
	chain := chainSeed(body.EmitterChain)
	return sharedAccounts{
		redeemer:        r.pda(r.cfg.RelayerProgramID, seedRedeemer),
		config:          r.pda(r.cfg.TokenBridgeProgramID, seedConfig),
		claim:           r.pda(r.cfg.TokenBridgeProgramID, body.EmitterAddress[:], chain, seq),
		foreignEndpoint: r.pda(r.cfg.TokenBridgeProgramID, chain, body.EmitterAddress[:]),
	}
}

func (r *Resolver) pda(program solana.PublicKey, seeds ...[]byte) solana.PublicKey {
	return mustFindPDA(program, seeds...)
}

func mustFindPDA(program solana.PublicKey, seeds ...[]byte) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress(seeds, program)
	if err != nil {
		// Only possible when no bump in 255..0 yields an off-curve point.
		panic(fmt.Sprintf("no program address for %s: %v", program, err))
	}
	return addr
}

func chainSeed(c protocol.ChainID) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(c))
	return b
}

// LUTAddress is the relayer program's lookup table pointer account.
func LUTAddress(relayerProgram solana.PublicKey) solana.PublicKey {
	return mustFindPDA(relayerProgram, seedLUT)
}

// AssociatedTokenAddress derives the associated token account for wallet and mint under tokenProgram.
func AssociatedTokenAddress(wallet, mint, tokenProgram solana.PublicKey) solana.PublicKey {
	return mustFindPDA(solana.SPLAssociatedTokenAccountProgramID, wallet[:], tokenProgram[:], mint[:])
}

// LUT is the relayer program's pointer to its address lookup table.
type LUT struct {
	Bump    uint8
	Address solana.PublicKey
}

// DecodeLUT parses the Anchor account data of a LUT pointer.
func DecodeLUT(data []byte) (*LUT, error) {
	if len(data) < lutAccountLength {
		return nil, fmt.Errorf("LUT account is %d bytes, expected at least %d", len(data), lutAccountLength)
	}
	if !bytes.Equal(data[:8], bin.Sighash(bin.SIGHASH_ACCOUNT_NAMESPACE, lutAccountName)) {
		return nil, fmt.Errorf("LUT account has wrong discriminator %x", data[:8])
	}
	return &LUT{Bump: data[8], Address: solana.PublicKeyFromBytes(data[9:lutAccountLength])}, nil
}

// Encode returns the Anchor account data.
func (l *LUT) Encode() []byte {
	out := make([]byte, 0, lutAccountLength)
	out = append(out, bin.Sighash(bin.SIGHASH_ACCOUNT_NAMESPACE, lutAccountName)...)
	out = append(out, l.Bump)
	return append(out, l.Address[:]...)
}

func readonly(k solana.PublicKey) resolver.AccountMeta {
	return resolver.AccountMeta{Pubkey: k}
}

func writable(k solana.PublicKey) resolver.AccountMeta {
	return resolver.AccountMeta{Pubkey: k, IsWritable: true}
}

func writableSigner(k solana.PublicKey) resolver.AccountMeta {
	return resolver.AccountMeta{Pubkey: k, IsWritable: true, IsSigner: true}
}
