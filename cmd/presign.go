// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	presignCmd.Flags().Duration("expires", time.Hour, "How long the URL stays valid (1s to 168h)")
	presignCmd.Flags().String("method", http.MethodGet, "HTTP method to presign (GET or PUT)")
	rootCmd.AddCommand(presignCmd)
}

var presignCmd = &cobra.Command{
	Use:   "presign bucket/key",
	Short: "Generate a time-limited URL for one object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, key, err := splitObjectArg(args[0])
		if err != nil {
			return err
		}
		client, err := newS3Client()
		if err != nil {
			return err
		}

		expires, _ := cmd.Flags().GetDuration("expires")
		method, _ := cmd.Flags().GetString("method")

		var signed string
		switch strings.ToUpper(method) {
		case http.MethodGet:
			signed, err = client.PresignGetObject(bucket, key, expires)
		case http.MethodPut:
			signed, err = client.PresignPutObject(bucket, key, expires)
		default:
			return fmt.Errorf("unsupported method %q, want GET or PUT", method)
		}
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}
