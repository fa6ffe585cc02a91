// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(iamCmd)
	iamCmd.AddCommand(iamUsersCmd, iamKeysCmd, iamPoliciesCmd)
	iamUsersCmd.AddCommand(iamUsersListCmd, iamUsersCreateCmd, iamUsersDeleteCmd)
	iamKeysCmd.AddCommand(iamKeysCreateCmd, iamKeysDeleteCmd)
	iamPoliciesCmd.AddCommand(iamPoliciesListCmd, iamPoliciesCreateCmd, iamPoliciesAttachCmd, iamPoliciesDetachCmd)
}

var iamCmd = &cobra.Command{
	Use:   "iam",
	Short: "Identity and policy operations",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var iamUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage IAM users",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var iamUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List IAM users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		users, err := client.ListUsers(cmd.Context(), "")
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%s  %s  %s\n", u.UserID, u.UserName, u.Arn)
		}
		return nil
	},
}

var iamUsersCreateCmd = &cobra.Command{
	Use:   "create name",
	Short: "Create an IAM user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		user, err := client.CreateUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", user.UserName, user.Arn)
		return nil
	},
}

var iamUsersDeleteCmd = &cobra.Command{
	Use:   "delete name",
	Short: "Delete an IAM user (succeeds if already absent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		return client.DeleteUser(cmd.Context(), args[0])
	},
}

var iamKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage access keys",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var iamKeysCreateCmd = &cobra.Command{
	Use:   "create user",
	Short: "Create an access key for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		key, err := client.CreateAccessKey(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		// The secret is shown exactly once: it cannot be fetched again.
		fmt.Printf("AccessKeyId:     %s\n", key.AccessKeyID)
		fmt.Printf("SecretAccessKey: %s\n", key.SecretAccessKey)
		return nil
	},
}

var iamKeysDeleteCmd = &cobra.Command{
	Use:   "delete user access-key-id",
	Short: "Delete an access key (succeeds if already absent)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		return client.DeleteAccessKey(cmd.Context(), args[0], args[1])
	},
}

var iamPoliciesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Manage managed policies",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var iamPoliciesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed policies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		policies, err := client.ListPolicies(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range policies {
			fmt.Printf("%s  %s\n", p.PolicyName, p.Arn)
		}
		return nil
	},
}

var iamPoliciesCreateCmd = &cobra.Command{
	Use:   "create name document.json",
	Short: "Create a managed policy from a JSON document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		p, err := client.CreatePolicy(cmd.Context(), args[0], string(doc))
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", p.PolicyName, p.Arn)
		return nil
	},
}

var iamPoliciesAttachCmd = &cobra.Command{
	Use:   "attach user policy-arn",
	Short: "Attach a managed policy to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		return client.AttachUserPolicy(cmd.Context(), args[0], args[1])
	},
}

var iamPoliciesDetachCmd = &cobra.Command{
	Use:   "detach user policy-arn",
	Short: "Detach a managed policy from a user (succeeds if already detached)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newIAMClient()
		if err != nil {
			return err
		}
		return client.DetachUserPolicy(cmd.Context(), args[0], args[1])
	},
}
