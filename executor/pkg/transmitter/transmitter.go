// Package transmitter turns resolved instruction groups into signed Solana transactions.
package transmitter

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"

	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/executor"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/protocol"
	"github.com/wormholelabs-xyz/example-permissionless-token-bridge-executor-shim/resolver"
)

var _ executor.Transmitter = (*SolanaTransmitter)(nil)

var seedPostedVAA = []byte("PostedVAA")

// ErrVAANotPosted is returned while the VAA has not been posted to the core bridge. Posting is
// done by another party, so callers should retry.
var ErrVAANotPosted = errors.New("VAA is not posted on chain")

// SolanaClient is the subset of *rpc.Client the transmitter uses.
type SolanaClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

type SolanaTransmitter struct {
	lggr              logger.Logger
	client            SolanaClient
	payer             solana.PrivateKey
	wormholeProgramID solana.PublicKey
	commitment        rpc.CommitmentType
}

func NewSolanaTransmitter(
	lggr logger.Logger,
	client SolanaClient,
	payer solana.PrivateKey,
	wormholeProgramID solana.PublicKey,
	commitment rpc.CommitmentType,
) (*SolanaTransmitter, error) {
	if lggr == nil {
		return nil, errors.New("logger is not set")
	}
	if client == nil {
		return nil, errors.New("solana client is not set")
	}
	if len(payer) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("payer key is %d bytes, expected %d", len(payer), ed25519.PrivateKeySize)
	}
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &SolanaTransmitter{
		lggr:              logger.Named(lggr, "SolanaTransmitter"),
		client:            client,
		payer:             payer,
		wormholeProgramID: wormholeProgramID,
		commitment:        commitment,
	}, nil
}

// Payer is the fee payer and the key substituted for the payer placeholder.
func (t *SolanaTransmitter) Payer() solana.PublicKey {
	return t.payer.PublicKey()
}

// PostedVAAAddress is the core bridge account holding a posted VAA.
func PostedVAAAddress(wormholeProgram solana.PublicKey, vaa *protocol.VAA) (solana.PublicKey, error) {
	digest := vaa.Digest()
	addr, _, err := solana.FindProgramAddress([][]byte{seedPostedVAA, digest[:]}, wormholeProgram)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive posted VAA address: %w", err)
	}
	return addr, nil
}

// Transmit sends one transaction per group in order and stops at the first failure. Signatures
// of the transactions already sent are returned alongside the error.
func (t *SolanaTransmitter) Transmit(ctx context.Context, groups []resolver.InstructionGroup, vaa *protocol.VAA) ([]solana.Signature, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	postedVAA, err := PostedVAAAddress(t.wormholeProgramID, vaa)
	if err != nil {
		return nil, err
	}
	if _, err = t.getAccount(ctx, postedVAA); err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVAANotPosted, postedVAA)
		}
		return nil, fmt.Errorf("failed to load posted VAA %s: %w", postedVAA, err)
	}

	replacements := map[solana.PublicKey]solana.PublicKey{
		resolver.PlaceholderPayer:     t.Payer(),
		resolver.PlaceholderPostedVAA: postedVAA,
	}

	sigs := make([]solana.Signature, 0, len(groups))
	for i, group := range groups {
		tx, err := t.buildTransaction(ctx, group, replacements)
		if err != nil {
			return sigs, fmt.Errorf("failed to build transaction for group %d: %w", i, err)
		}
		sig, err := t.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			PreflightCommitment: t.commitment,
		})
		if err != nil {
			return sigs, fmt.Errorf("failed to send transaction for group %d: %w", i, err)
		}
		t.lggr.Infow("Sent transaction", "group", i, "signature", sig, "lookupTables", len(group.AddressLookupTables))
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

func (t *SolanaTransmitter) buildTransaction(
	ctx context.Context,
	group resolver.InstructionGroup,
	replacements map[solana.PublicKey]solana.PublicKey,
) (*solana.Transaction, error) {
	instructions := make([]solana.Instruction, 0, len(group.Instructions))
	for _, ix := range group.Instructions {
		metas := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
		for _, acc := range ix.Accounts {
			key := acc.Pubkey
			if r, ok := replacements[key]; ok {
				key = r
			}
			metas = append(metas, solana.NewAccountMeta(key, acc.IsWritable, acc.IsSigner))
		}
		instructions = append(instructions, solana.NewInstruction(ix.ProgramID, metas, ix.Data))
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(t.Payer())}
	if len(group.AddressLookupTables) > 0 {
		tables, err := t.loadLookupTables(ctx, group.AddressLookupTables)
		if err != nil {
			return nil, err
		}
		opts = append(opts, solana.TransactionAddressTables(tables))
	}

	latest, err := t.client.GetLatestBlockhash(ctx, t.commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	payer := t.payer
	if _, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

func (t *SolanaTransmitter) loadLookupTables(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey]solana.PublicKeySlice, error) {
	tables := make(map[solana.PublicKey]solana.PublicKeySlice, len(keys))
	for _, key := range keys {
		data, err := t.getAccount(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to load lookup table %s: %w", key, err)
		}
		state, err := addresslookuptable.DecodeAddressLookupTableState(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode lookup table %s: %w", key, err)
		}
		tables[key] = state.Addresses
	}
	return tables, nil
}

func (t *SolanaTransmitter) getAccount(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	res, err := t.client.GetAccountInfoWithOpts(ctx, key, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: t.commitment,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.Value == nil {
		return nil, rpc.ErrNotFound
	}
	return res.Value.Data.GetBinary(), nil
}
