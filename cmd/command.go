// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/LeeDigitalWorks/s3bridge/pkg/credentials"
	"github.com/LeeDigitalWorks/s3bridge/pkg/debug"
	"github.com/LeeDigitalWorks/s3bridge/pkg/iamclient"
	"github.com/LeeDigitalWorks/s3bridge/pkg/s3client"
	"github.com/LeeDigitalWorks/s3bridge/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "s3bridge",
	Short: "s3bridge - S3 and IAM operations without the SDK",
	Long: `s3bridge exposes S3-compatible object storage and IAM operations as
discrete commands, signing every request with a from-scratch AWS Signature
Version 4 implementation. It works against AWS and any S3-compatible service
(MinIO, Ceph RGW, and friends) via a custom endpoint.`,
	PersistentPreRun: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")

	rootCmd.PersistentFlags().String("access_key", "", "Access key id (or set S3BRIDGE_ACCESS_KEY)")
	rootCmd.PersistentFlags().String("secret_key", "", "Secret access key (or set S3BRIDGE_SECRET_KEY)")
	rootCmd.PersistentFlags().String("region", "us-east-1", "Region code")
	rootCmd.PersistentFlags().String("endpoint", "", "Custom endpoint URL for S3-compatible services")
	rootCmd.PersistentFlags().Bool("path_style", false, "Force path-style bucket addressing")
	rootCmd.PersistentFlags().String("debug_addr", "", "Serve metrics and pprof on this address (e.g. :6060)")

	viper.BindPFlag("access_key", rootCmd.PersistentFlags().Lookup("access_key"))
	viper.BindPFlag("secret_key", rootCmd.PersistentFlags().Lookup("secret_key"))
	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.BindPFlag("path_style", rootCmd.PersistentFlags().Lookup("path_style"))
	viper.BindPFlag("debug_addr", rootCmd.PersistentFlags().Lookup("debug_addr"))

	viper.SetEnvPrefix("S3BRIDGE")
}

func loadConfig(cmd *cobra.Command, args []string) {
	utils.LoadConfiguration("s3bridge", false)

	if addr := viper.GetString("debug_addr"); addr != "" {
		debug.Serve(addr)
	}
}

func loadCredentials() credentials.Credentials {
	return credentials.Credentials{
		AccessKey:      viper.GetString("access_key"),
		SecretKey:      viper.GetString("secret_key"),
		Region:         viper.GetString("region"),
		Endpoint:       viper.GetString("endpoint"),
		ForcePathStyle: viper.GetBool("path_style"),
	}
}

func newS3Client() (*s3client.Client, error) {
	return s3client.New(loadCredentials())
}

func newIAMClient() (*iamclient.Client, error) {
	return iamclient.New(loadCredentials())
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
