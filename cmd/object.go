// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/LeeDigitalWorks/s3bridge/pkg/logger"
	"github.com/LeeDigitalWorks/s3bridge/pkg/s3client"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	putCmd.Flags().String("content_type", "", "Content-Type for the uploaded object")
	rmCmd.Flags().Bool("batch", false, "Treat all arguments after the bucket as keys and delete them in one call")
	rootCmd.AddCommand(getCmd, putCmd, rmCmd, statCmd, cpCmd)
}

// splitObjectArg splits "bucket/key/with/slashes" into bucket and key.
func splitObjectArg(arg string) (string, string, error) {
	bucket, key, found := strings.Cut(arg, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("expected bucket/key, got %q", arg)
	}
	return bucket, key, nil
}

var getCmd = &cobra.Command{
	Use:   "get bucket/key [file]",
	Short: "Download an object to a file (or stdout)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, key, err := splitObjectArg(args[0])
		if err != nil {
			return err
		}
		client, err := newS3Client()
		if err != nil {
			return err
		}

		out, err := client.GetObject(cmd.Context(), bucket, key, s3client.GetObjectOptions{})
		if err != nil {
			return err
		}

		if len(args) == 2 {
			if err := os.WriteFile(args[1], out.Body, 0o644); err != nil {
				return err
			}
			logger.Info().
				Str("key", key).
				Str("file", args[1]).
				Str("size", humanize.IBytes(uint64(len(out.Body)))).
				Msg("downloaded object")
			return nil
		}
		_, err = os.Stdout.Write(out.Body)
		return err
	},
}

var putCmd = &cobra.Command{
	Use:   "put file bucket/key",
	Short: "Upload a file as an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, key, err := splitObjectArg(args[1])
		if err != nil {
			return err
		}
		body, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		client, err := newS3Client()
		if err != nil {
			return err
		}

		contentType, _ := cmd.Flags().GetString("content_type")
		etag, err := client.PutObject(cmd.Context(), bucket, key, body, contentType, nil)
		if err != nil {
			return err
		}
		logger.Info().
			Str("key", key).
			Str("etag", etag).
			Str("size", humanize.IBytes(uint64(len(body)))).
			Msg("uploaded object")
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm bucket/key [key...]",
	Short: "Delete one object, or many with --batch",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newS3Client()
		if err != nil {
			return err
		}

		batch, _ := cmd.Flags().GetBool("batch")
		if !batch {
			bucket, key, err := splitObjectArg(args[0])
			if err != nil {
				return err
			}
			return client.DeleteObject(cmd.Context(), bucket, key)
		}

		bucket := args[0]
		out, err := client.DeleteObjects(cmd.Context(), bucket, args[1:])
		if err != nil {
			return err
		}
		for _, e := range out.Errors {
			fmt.Fprintf(os.Stderr, "failed: %s: %s (%s)\n", e.Key, e.Message, e.Code)
		}
		if len(out.Errors) > 0 {
			return fmt.Errorf("%d of %d deletions failed", len(out.Errors), len(args)-1)
		}
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:   "stat bucket/key",
	Short: "Print object metadata",
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

		meta, err := client.HeadObject(cmd.Context(), bucket, key)
		if err != nil {
			return err
		}
		fmt.Printf("Key:           %s\n", key)
		fmt.Printf("Size:          %s (%d bytes)\n", humanize.IBytes(uint64(meta.ContentLength)), meta.ContentLength)
		fmt.Printf("ETag:          %s\n", meta.ETag)
		fmt.Printf("Content-Type:  %s\n", meta.ContentType)
		fmt.Printf("Last-Modified: %s\n", meta.LastModified)
		for name, val := range meta.Metadata {
			fmt.Printf("Meta %s: %s\n", name, val)
		}
		return nil
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp src-bucket/src-key dst-bucket/dst-key",
	Short: "Server-side copy an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcBucket, srcKey, err := splitObjectArg(args[0])
		if err != nil {
			return err
		}
		dstBucket, dstKey, err := splitObjectArg(args[1])
		if err != nil {
			return err
		}
		client, err := newS3Client()
		if err != nil {
			return err
		}
		return client.CopyObject(cmd.Context(), srcBucket, srcKey, dstBucket, dstKey)
	},
}
