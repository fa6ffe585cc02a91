// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/LeeDigitalWorks/s3bridge/pkg/logger"
	"github.com/LeeDigitalWorks/s3bridge/pkg/s3client"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	lsCmd.Flags().String("prefix", "", "Only list keys under this prefix")
	lsCmd.Flags().Int("max_keys", 0, "Maximum keys per page (0 = server default)")
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls [bucket]",
	Short: "List buckets, or objects in a bucket",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newS3Client()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			out, err := client.ListBuckets(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range out.Buckets {
				fmt.Printf("%s  %s\n", b.CreationDate, b.Name)
			}
			return nil
		}

		bucket := args[0]
		prefix, _ := cmd.Flags().GetString("prefix")
		maxKeys, _ := cmd.Flags().GetInt("max_keys")

		// Follow continuation tokens until the listing is complete.
		var token string
		for {
			out, err := client.ListObjects(cmd.Context(), bucket, s3client.ListObjectsOptions{
				Prefix:            prefix,
				ContinuationToken: token,
				MaxKeys:           maxKeys,
			})
			if err != nil {
				return err
			}
			for _, obj := range out.Contents {
				fmt.Printf("%s  %9s  %s\n", obj.LastModified, humanize.IBytes(uint64(obj.Size)), obj.Key)
			}
			if !out.IsTruncated || out.NextContinuationToken == "" {
				return nil
			}
			token = out.NextContinuationToken
			logger.Ctx(cmd.Context()).Debug().
				Str("bucket", bucket).
				Str("token", truncateToken(token)).
				Msg("continuing listing")
		}
	},
}

func truncateToken(token string) string {
	if len(token) > 16 {
		return token[:16] + "..."
	}
	return token
}
