// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/aduamah/firefinder/incidents"
	"github.com/aduamah/firefinder/stations"
)

var (
	serveAddr   string
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for station search and incident reporting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("db-path") {
			if env := os.Getenv("FIREFINDER_DB"); env != "" {
				serveDBPath = env
			}
		}

		if err := os.MkdirAll(serveDBPath, 0o750); err != nil {
			return fmt.Errorf("creating db directory: %w", err)
		}

		db, err := sql.Open("duckdb", filepath.Join(serveDBPath, "firefinder.duckdb"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo := incidents.NewRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}

		svc, err := newEngine(cmd)
		if err != nil {
			return err
		}

		r := gin.Default()
		r.GET("/healthz", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
		})

		stations.NewServer(svc).RegisterRoutes(r)
		incidents.NewServer(repo).RegisterRoutes(r)

		return r.Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db-path", "db", "directory holding the incident database")
	rootCmd.AddCommand(serveCmd)
}
