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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/internal/config"
	"github.com/blinklabs-io/govproxy/version"
	"github.com/spf13/cobra"
)

func initCommand() *cobra.Command {
	var adminFlag string
	var governanceFlag string
	var versionFlag string
	cmd := &cobra.Command{
		Use:   "init <implementation-address>",
		Short: "Initialize the proxy record and governance config",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			initialVersion, err := version.Parse(versionFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			admin := identity.Identity(adminFlag)
			if admin == "" {
				caller, err := actingIdentity(cfg)
				if err != nil {
					slog.Error(err.Error())
					os.Exit(1)
				}
				admin = caller
			}
			governanceIdentity := identity.Identity(governanceFlag)
			if governanceIdentity == "" {
				governanceIdentity = admin
			}
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			if err := c.proxy.Initialize(args[0], admin); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			if err := c.governance.Initialize(governanceIdentity, initialVersion); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf(
				"initialized: implementation=%s admin=%s governance=%s version=%s\n",
				args[0],
				admin,
				governanceIdentity,
				initialVersion.String(),
			)
		},
	}
	cmd.Flags().
		StringVar(&adminFlag, "admin", "", "proxy admin identity (defaults to acting identity)")
	cmd.Flags().
		StringVar(&governanceFlag, "governance", "", "governance identity (defaults to admin)")
	cmd.Flags().
		StringVar(&versionFlag, "version", "1.0.0", "initial implementation version")
	return cmd
}

func infoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the proxy record and governance config",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			record, err := c.proxy.Info()
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("implementation:  %s\n", record.Implementation)
			fmt.Printf("admin:           %s\n", record.Admin)
			if record.PendingAdmin != "" {
				fmt.Printf("pending admin:   %s\n", record.PendingAdmin)
			}
			fmt.Printf("version counter: %d\n", record.VersionCounter)
			fmt.Printf("paused:          %t\n", record.Paused)
			fmt.Printf(
				"last updated:    %s\n",
				time.Unix(record.LastUpdated, 0).Format(time.RFC3339),
			)
			govConfig, err := c.governance.Config()
			if err != nil {
				if errors.Is(err, models.ErrGovNotInitialized) {
					fmt.Println("governance:      not initialized")
					return
				}
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("governance:      %s\n", govConfig.GovernanceIdentity)
			fmt.Printf("current version: %s\n", govConfig.CurrentVersion.String())
			if govConfig.CurrentImplementation != "" {
				fmt.Printf(
					"governed impl:   %s\n",
					govConfig.CurrentImplementation,
				)
			}
			fmt.Printf("emergency:       %t\n", govConfig.EmergencyEnabled)
		},
	}
	return cmd
}

func upgradeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade <new-implementation-address>",
		Short: "Point the proxy at a new implementation (admin only)",
		Args:  cobra.ExactArgs(1),
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
			id, err := c.proxy.Upgrade(caller, args[0])
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("upgraded: id=%d implementation=%s\n", id, args[0])
		},
	}
	return cmd
}

func transferAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-admin <new-admin-identity>",
		Short: "Nominate a successor admin (admin only)",
		Args:  cobra.ExactArgs(1),
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
			newAdmin := identity.Identity(args[0])
			if err := c.proxy.TransferAdmin(caller, newAdmin); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("pending admin: %s\n", newAdmin)
		},
	}
	return cmd
}

func acceptAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept-admin",
		Short: "Complete an admin handover (pending admin only)",
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
			if err := c.proxy.AcceptAdmin(caller); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Printf("admin: %s\n", caller)
		},
	}
	return cmd
}

func pauseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause the proxy, rejecting upgrades and admin transfers",
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
			if err := c.proxy.EmergencyStop(caller); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("paused")
		},
	}
	return cmd
}

func resumeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Lift a pause set by the pause command",
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
			if err := c.proxy.Resume(caller); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Println("resumed")
		},
	}
	return cmd
}

func historyCommand() *cobra.Command {
	var limitFlag int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show upgrade audit records, most recent first",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			logger := commonRun()
			c, err := openClient(cfg, logger)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			defer c.Close()
			history, err := c.proxy.History(limitFlag)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			for _, txn := range history {
				fmt.Printf(
					"%d\t%s\t%s\t%s\n",
					txn.ID,
					txn.Timestamp.Format(time.RFC3339),
					txn.Initiator,
					txn.NewImplementation,
				)
			}
		},
	}
	cmd.Flags().
		IntVar(&limitFlag, "limit", 0, "maximum records to show, 0 for all")
	return cmd
}
