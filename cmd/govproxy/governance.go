// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/internal/config"
	"github.com/blinklabs-io/govproxy/version"
	"github.com/spf13/cobra"
)

func proposeCommand() *cobra.Command {
	var versionFlag string
	var descriptionFlag string
	cmd := &cobra.Command{
		Use:   "propose <new-implementation-address>",
		Short: "Create an upgrade proposal",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			targetVersion, err := version.Parse(versionFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			id, err := c.governance.Propose(
				caller,
				args[0],
				targetVersion,
				descriptionFlag,
			)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("proposal: id=%d version=%s\n", id, targetVersion.String())
		},
	}
	cmd.Flags().
		StringVar(&versionFlag, "version", "", "target implementation version (required)")
	cmd.Flags().
		StringVar(&descriptionFlag, "description", "", "proposal description")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func proposalsCommand() *cobra.Command {
	var statusFlag string
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "List proposals by status",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			status, err := statusByName(statusFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			proposals, err := c.governance.ProposalsByStatus(status)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, p := range proposals {
				fmt.Printf(
					"%d\t%s\t%s\t%s\t%s\tfor=%d against=%d of %d\n",
					p.ID,
					models.ProposalStatusString(p.Status),
					p.Timestamp.Format(time.RFC3339),
					p.Proposer,
					p.Version().String(),
					p.VotesFor,
					p.VotesAgainst,
					p.TotalVoters,
				)
			}
		},
	}
	cmd.Flags().
		StringVar(&statusFlag, "status", "pending", "proposal status to list")
	return cmd
}

func voteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote <proposal-id> <for|against>",
		Short: "Cast a weighted ballot on a pending proposal",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			proposalId, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid proposal id: %s", err))
				os.Exit(1)
			}
			var voteFor bool
			switch args[1] {
			case "for":
				voteFor = true
			case "against":
				voteFor = false
			default:
				slog.Error(
					fmt.Sprintf("invalid vote %q, expected 'for' or 'against'", args[1]),
				)
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			if err := c.governance.Vote(caller, proposalId, voteFor); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("voted: id=%d for=%t\n", proposalId, voteFor)
		},
	}
	return cmd
}

func executeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execute <proposal-id>",
		Short: "Execute an approved proposal (governance only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			proposalId, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid proposal id: %s", err))
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			err = c.governance.Execute(cmd.Context(), caller, proposalId)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("executed: id=%d\n", proposalId)
		},
	}
	return cmd
}

func cancelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <proposal-id>",
		Short: "Cancel a pending proposal (proposer or governance)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			proposalId, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid proposal id: %s", err))
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			if err := c.governance.Cancel(caller, proposalId); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("cancelled: id=%d\n", proposalId)
		},
	}
	return cmd
}

func rollbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback <target-version>",
		Short: "Roll the recorded version back within the same major version",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			targetVersion, err := version.Parse(args[0])
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			if err := c.governance.Rollback(caller, targetVersion); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("rolled back to %s\n", targetVersion.String())
		},
	}
	return cmd
}

func emergencyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Manage the emergency upgrade path",
	}
	cmd.AddCommand(emergencyToggleCommand("enable", true))
	cmd.AddCommand(emergencyToggleCommand("disable", false))
	cmd.AddCommand(emergencyUpgradeCommand())
	return cmd
}

func emergencyToggleCommand(use string, enable bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("%s emergency upgrades (governance only)", use),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			if err := c.governance.ToggleEmergency(caller, enable); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("emergency upgrades: enabled=%t\n", enable)
		},
	}
}

func emergencyUpgradeCommand() *cobra.Command {
	var versionFlag string
	cmd := &cobra.Command{
		Use:   "upgrade <new-implementation-address>",
		Short: "Perform an emergency upgrade, bypassing the proposal workflow",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			newVersion, err := version.Parse(versionFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			err = c.governance.EmergencyUpgrade(caller, args[0], newVersion)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf(
				"emergency upgrade: implementation=%s version=%s\n",
				args[0],
				newVersion.String(),
			)
		},
	}
	cmd.Flags().
		StringVar(&versionFlag, "version", "", "new implementation version (required)")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

func setPowerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-power <voter-identity> <weight>",
		Short: "Set the vote weight for an identity (governance only)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			weight, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid weight: %s", err))
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			voter := identity.Identity(args[0])
			if err := c.governance.SetVotingPower(caller, voter, weight); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("voting power: %s=%d\n", voter, weight)
		},
	}
	return cmd
}

func setQuorumCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-quorum <proposal-id> <total-voters>",
		Short: "Override the quorum snapshot of a pending proposal (governance only)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			proposalId, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid proposal id: %s", err))
				os.Exit(1)
			}
			totalVoters, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid total voters: %s", err))
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			err = c.governance.SetProposalQuorum(caller, proposalId, totalVoters)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("quorum: id=%d total_voters=%d\n", proposalId, totalVoters)
		},
	}
	return cmd
}

func registerMigrationCommand() *cobra.Command {
	var fromFlag string
	var toFlag string
	var costFlag uint64
	cmd := &cobra.Command{
		Use:   "register-migration <proposal-id> <selector>",
		Short: "Attach a migration plan to a proposal (governance only)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			caller, err := actingIdentity(cfg)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			proposalId, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				slog.Error(fmt.Sprintf("invalid proposal id: %s", err))
				os.Exit(1)
			}
			fromVersion, err := version.Parse(fromFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			toVersion, err := version.Parse(toFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			plan := &models.MigrationPlan{
				Selector:      args[1],
				EstimatedCost: costFlag,
			}
			plan.SetFromVersion(fromVersion)
			plan.SetToVersion(toVersion)
			err = c.governance.RegisterMigrationPlan(caller, proposalId, plan)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf(
				"migration plan: id=%d selector=%s %s -> %s\n",
				proposalId,
				args[1],
				fromVersion.String(),
				toVersion.String(),
			)
		},
	}
	cmd.Flags().
		StringVar(&fromFlag, "from", "", "source version (required)")
	cmd.Flags().
		StringVar(&toFlag, "to", "", "target version (required)")
	cmd.Flags().
		Uint64Var(&costFlag, "estimated-cost", 0, "estimated migration cost")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
