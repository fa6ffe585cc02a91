// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mbCmd, rbCmd, policyCmd)
	policyCmd.AddCommand(policyGetCmd, policySetCmd)
}

var mbCmd = &cobra.Command{
	Use:   "mb bucket",
	Short: "Make a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newS3Client()
		if err != nil {
			return err
		}
		return client.CreateBucket(cmd.Context(), args[0])
	},
}

var rbCmd = &cobra.Command{
	Use:   "rb bucket",
	Short: "Remove an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newS3Client()
		if err != nil {
			return err
		}
		return client.DeleteBucket(cmd.Context(), args[0])
	},
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Get or set a bucket policy",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var policyGetCmd = &cobra.Command{
	Use:   "get bucket",
	Short: "Print the bucket policy document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newS3Client()
		if err != nil {
			return err
		}
		doc, err := client.GetBucketPolicy(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(doc)
		return nil
	},
}

var policySetCmd = &cobra.Command{
	Use:   "set bucket policy.json",
	Short: "Install a bucket policy from a JSON file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		client, err := newS3Client()
		if err != nil {
			return err
		}
		return client.PutBucketPolicy(cmd.Context(), args[0], string(doc))
	},
}
