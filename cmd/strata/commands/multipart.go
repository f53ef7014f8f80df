package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/org/strata/pkg/storage"
)

// newMultipartCommand creates the multipart subcommand
func newMultipartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multipart",
		Short: "Manage multipart uploads",
		Long: `Manage multipart uploads.

A multipart session is identified by its object key and the upload id
the provider issues on creation. Parts can be sent in any order and
from different invocations; completion assembles them into the final
object and abort discards them.`,
	}

	cmd.AddCommand(newMultipartNewCommand())
	cmd.AddCommand(newMultipartPutPartCommand())
	cmd.AddCommand(newMultipartCompleteCommand())
	cmd.AddCommand(newMultipartAbortCommand())

	return cmd
}

func newMultipartNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new KEY",
		Short: "Start a multipart upload and print its upload id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			up, err := env.Buckets[name].CreateMultipartUpload(cmd.Context(), args[0], nil)
			if err != nil {
				return describeFailure(err)
			}
			fmt.Printf("upload id: %s\n", up.UploadID())
			return nil
		},
	}
}

func newMultipartPutPartCommand() *cobra.Command {
	var (
		uploadID string
		part     int
		file     string
	)

	cmd := &cobra.Command{
		Use:   "put-part KEY",
		Short: "Upload one part of a multipart upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			up, err := env.Buckets[name].ResumeMultipartUpload(cmd.Context(), args[0], uploadID)
			if err != nil {
				return describeFailure(err)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			confirmed, err := up.UploadPart(cmd.Context(), part, f)
			if err != nil {
				return describeFailure(err)
			}
			fmt.Printf("part %d: %s\n", confirmed.PartNumber, confirmed.ETag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&uploadID, "upload-id", "u", "", "Upload id from 'multipart new'")
	cmd.Flags().IntVarP(&part, "part", "p", 0, "Part number in [1, 10000]")
	cmd.Flags().StringVarP(&file, "file", "f", "", "File holding the part's content")
	_ = cmd.MarkFlagRequired("upload-id")
	_ = cmd.MarkFlagRequired("part")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newMultipartCompleteCommand() *cobra.Command {
	var (
		uploadID string
		parts    []string
	)

	cmd := &cobra.Command{
		Use:   "complete KEY",
		Short: "Assemble the uploaded parts into the final object",
		Long: `Assemble the uploaded parts into the final object.

Every uploaded part must be listed exactly once as NUMBER=ETAG, in any
order. A missing or duplicated part fails the completion.`,
		Example: `  strata multipart complete videos/cat.mp4 -u "$ID" \
    --part 1=etag-a --part 2=etag-b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, err := parseParts(parts)
			if err != nil {
				return err
			}

			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			up, err := env.Buckets[name].ResumeMultipartUpload(cmd.Context(), args[0], uploadID)
			if err != nil {
				return describeFailure(err)
			}

			info, err := up.Complete(cmd.Context(), confirmed)
			if err != nil {
				return describeFailure(err)
			}
			fmt.Printf("assembled %s (etag %s)\n", info.Key, info.ETag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&uploadID, "upload-id", "u", "", "Upload id from 'multipart new'")
	cmd.Flags().StringArrayVar(&parts, "part", nil, "Confirmation record as NUMBER=ETAG (repeatable)")
	_ = cmd.MarkFlagRequired("upload-id")
	_ = cmd.MarkFlagRequired("part")
	return cmd
}

func newMultipartAbortCommand() *cobra.Command {
	var uploadID string

	cmd := &cobra.Command{
		Use:   "abort KEY",
		Short: "Abort a multipart upload and discard its parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := resolveEnv(cmd.Context())
			if err != nil {
				return err
			}
			name, err := selectBucket(env)
			if err != nil {
				return err
			}

			up, err := env.Buckets[name].ResumeMultipartUpload(cmd.Context(), args[0], uploadID)
			if err != nil {
				return describeFailure(err)
			}
			if err := up.Abort(cmd.Context()); err != nil {
				return describeFailure(err)
			}
			fmt.Println("aborted")
			return nil
		},
	}

	cmd.Flags().StringVarP(&uploadID, "upload-id", "u", "", "Upload id from 'multipart new'")
	_ = cmd.MarkFlagRequired("upload-id")
	return cmd
}

// parseParts parses NUMBER=ETAG flags into confirmation records.
func parseParts(specs []string) ([]storage.UploadedPart, error) {
	parts := make([]storage.UploadedPart, 0, len(specs))
	for _, spec := range specs {
		num, etag, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid part %q, expected NUMBER=ETAG", spec)
		}
		var n int
		if _, err := fmt.Sscanf(num, "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid part number %q", num)
		}
		parts = append(parts, storage.UploadedPart{PartNumber: n, ETag: etag})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })
	return parts, nil
}
