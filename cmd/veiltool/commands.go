package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/veilpay-chain/veilpay/x/sponsorship/types"
)

// NewRootCmd returns the veiltool root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "veiltool",
		Short: "Offline tooling for sponsorship payloads and contexts",
		Long: `veiltool builds and inspects the fixed-offset wire structures used by the
sponsorship module: authorization payloads, validation contexts, and the
binding values (message, scope) a membership proof must carry.

Everything runs offline. No node connection is required.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		CmdPayload(),
		CmdContext(),
		CmdScope(),
		CmdMessage(),
	)

	return rootCmd
}

// CmdPayload returns the payload command group
func CmdPayload() *cobra.Command {
	payloadCmd := &cobra.Command{
		Use:                        "payload",
		Short:                      "Build and decode authorization payloads",
		SuggestionsMinimumDistance: 2,
	}

	payloadCmd.AddCommand(
		CmdPayloadNew(),
		CmdPayloadCached(),
		CmdPayloadDecode(),
	)

	return payloadCmd
}

// CmdPayloadNew returns a command that assembles a new-proof payload
func CmdPayloadNew() *cobra.Command {
	var (
		depth        uint64
		rootHex      string
		nullifierHex string
		messageHex   string
		scopeHex     string
		pointsHex    string
	)

	cmd := &cobra.Command{
		Use:   "new [group-id-hex]",
		Short: "Assemble a new-proof payload from its proof components",
		Long: `Assemble a new-proof authorization payload. The proof points are supplied
as a single hex string of 8 concatenated 32-byte values, in the order the
prover emits them.

Example:
  $ veiltool payload new ab00...00 --depth 20 --root <hex32> \
      --nullifier <hex32> --message <hex32> --scope <hex32> --points <hex256>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := decodeFieldArg("group id", args[0])
			if err != nil {
				return err
			}
			root, err := decodeFieldArg("merkle root", rootHex)
			if err != nil {
				return err
			}
			nullifier, err := decodeFieldArg("nullifier", nullifierHex)
			if err != nil {
				return err
			}
			message, err := decodeFieldArg("message", messageHex)
			if err != nil {
				return err
			}
			scope, err := decodeFieldArg("scope", scopeHex)
			if err != nil {
				return err
			}
			points, err := decodePointsArg(pointsHex)
			if err != nil {
				return err
			}

			raw, err := types.EncodePayload(&types.SponsorshipPayload{
				Mode:    types.PayloadModeNew,
				GroupId: groupID,
				Proof: &types.MembershipProof{
					MerkleTreeDepth: depth,
					MerkleTreeRoot:  root,
					Nullifier:       nullifier,
					Message:         message,
					Scope:           scope,
					Points:          points,
				},
			})
			if err != nil {
				return err
			}

			cmd.Println(hex.EncodeToString(raw))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&depth, "depth", 0, "merkle tree depth of the proof")
	cmd.Flags().StringVar(&rootHex, "root", "", "merkle tree root (32-byte hex)")
	cmd.Flags().StringVar(&nullifierHex, "nullifier", "", "nullifier (32-byte hex)")
	cmd.Flags().StringVar(&messageHex, "message", "", "message binding value (32-byte hex)")
	cmd.Flags().StringVar(&scopeHex, "scope", "", "scope binding value (32-byte hex)")
	cmd.Flags().StringVar(&pointsHex, "points", "", "8 proof points concatenated (256-byte hex)")

	for _, f := range []string{"depth", "root", "nullifier", "message", "scope", "points"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

// CmdPayloadCached returns a command that assembles a cached-reference payload
func CmdPayloadCached() *cobra.Command {
	var nullifierHex string

	cmd := &cobra.Command{
		Use:   "cached [group-id-hex]",
		Short: "Assemble a cached-reference payload",
		Long: `Assemble a cached-reference payload. Pass --nullifier when the target
group runs the quota-aware variant, which requires the reference to name
the nullifier whose quota record the operation draws from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := decodeFieldArg("group id", args[0])
			if err != nil {
				return err
			}

			payload := &types.SponsorshipPayload{
				Mode:    types.PayloadModeCached,
				GroupId: groupID,
			}
			if nullifierHex != "" {
				payload.Nullifier, err = decodeFieldArg("nullifier", nullifierHex)
				if err != nil {
					return err
				}
			}

			raw, err := types.EncodePayload(payload)
			if err != nil {
				return err
			}

			cmd.Println(hex.EncodeToString(raw))
			return nil
		},
	}

	cmd.Flags().StringVar(&nullifierHex, "nullifier", "", "nullifier for quota-aware groups (32-byte hex)")

	return cmd
}

// CmdPayloadDecode returns a command that pretty-prints a payload
func CmdPayloadDecode() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [payload-hex]",
		Short: "Decode an authorization payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("payload is not valid hex: %w", err)
			}

			payload, err := types.DecodePayload(raw)
			if err != nil {
				return err
			}

			switch payload.Mode {
			case types.PayloadModeNew:
				cmd.Println("mode:      new proof")
				cmd.Printf("group:     %x\n", payload.GroupId)
				cmd.Printf("depth:     %d\n", payload.Proof.MerkleTreeDepth)
				cmd.Printf("root:      %x\n", payload.Proof.MerkleTreeRoot)
				cmd.Printf("nullifier: %x\n", payload.Proof.Nullifier)
				cmd.Printf("message:   %x\n", payload.Proof.Message)
				cmd.Printf("scope:     %x\n", payload.Proof.Scope)
				for i, pt := range payload.Proof.Points {
					cmd.Printf("point[%d]:  %x\n", i, pt)
				}
			case types.PayloadModeCached:
				cmd.Println("mode:      cached reference")
				cmd.Printf("group:     %x\n", payload.GroupId)
				if payload.Nullifier != nil {
					cmd.Printf("nullifier: %x\n", payload.Nullifier)
				}
			}
			return nil
		},
	}
}

// CmdContext returns the context command group
func CmdContext() *cobra.Command {
	contextCmd := &cobra.Command{
		Use:                        "context",
		Short:                      "Inspect validation contexts",
		SuggestionsMinimumDistance: 2,
	}

	contextCmd.AddCommand(&cobra.Command{
		Use:   "decode [context-hex]",
		Short: "Decode a validation context emitted by the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("context is not valid hex: %w", err)
			}

			vctx, err := types.DecodeValidationContext(raw)
			if err != nil {
				return err
			}

			switch vctx.Kind {
			case types.ContextKindGroup:
				cmd.Println("kind:      group")
			case types.ContextKindGroupNullifier:
				cmd.Println("kind:      group + nullifier")
			}
			cmd.Printf("group:     %x\n", vctx.GroupId)
			cmd.Printf("pre-fund:  %s\n", vctx.PreFund)
			if vctx.Nullifier != nil {
				cmd.Printf("nullifier: %x\n", vctx.Nullifier)
			}
			return nil
		},
	})

	return contextCmd
}

// CmdScope returns a command that computes proof scope binding values
func CmdScope() *cobra.Command {
	var epochStr string

	cmd := &cobra.Command{
		Use:   "scope [group-id-hex]",
		Short: "Compute the scope a proof must carry for a group",
		Long: `Compute the scope binding value for a group. Without --epoch the plain
group scope is printed. With --epoch the epoch-bound scope used by the
quota-aware variant is printed instead.

Examples:
  $ veiltool scope ab00...00
  $ veiltool scope ab00...00 --epoch 472222`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := decodeFieldArg("group id", args[0])
			if err != nil {
				return err
			}

			if epochStr == "" {
				cmd.Println(hex.EncodeToString(types.ScopeForGroup(groupID)))
				return nil
			}

			epoch, err := strconv.ParseUint(epochStr, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid epoch %q: %w", epochStr, err)
			}
			cmd.Println(hex.EncodeToString(types.ScopeForGroupEpoch(groupID, epoch)))
			return nil
		},
	}

	cmd.Flags().StringVar(&epochStr, "epoch", "", "epoch index for the quota-aware scope")

	return cmd
}

// CmdMessage returns a command that computes the sender message binding
func CmdMessage() *cobra.Command {
	return &cobra.Command{
		Use:   "message [sender-address]",
		Short: "Compute the message a proof must carry for a sender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid sender address %s: %w", args[0], err)
			}

			cmd.Println(hex.EncodeToString(types.MessageForSender(sender)))
			return nil
		},
	}
}

func decodeFieldArg(name, value string) ([]byte, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", name, err)
	}
	if len(raw) != types.FieldElementSize {
		return nil, fmt.Errorf("%s must be %d bytes, got %d", name, types.FieldElementSize, len(raw))
	}
	return raw, nil
}

func decodePointsArg(value string) ([][]byte, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("points are not valid hex: %w", err)
	}
	if len(raw) != types.ProofPointCount*types.FieldElementSize {
		return nil, fmt.Errorf("points must be %d bytes, got %d",
			types.ProofPointCount*types.FieldElementSize, len(raw))
	}
	points := make([][]byte, types.ProofPointCount)
	for i := range points {
		points[i] = raw[i*types.FieldElementSize : (i+1)*types.FieldElementSize]
	}
	return points, nil
}
