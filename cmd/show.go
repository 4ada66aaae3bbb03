package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"canarycast/internal/cache"
	"canarycast/internal/utils"
	"canarycast/internal/validation"
)

var showCmd = &cobra.Command{
	Use:   "show <namespace> <key>",
	Short: "Show one cached entry",
	Long:  `Print a cached entry's value as indented JSON, along with its age and remaining TTL.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

var putTTL time.Duration

var putCmd = &cobra.Command{
	Use:   "put <namespace> <key> <json>",
	Short: "Write a cache entry",
	Long:  `Store a JSON value under (namespace, key). Mainly useful for seeding test data and inspecting cache behavior.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runPut,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(putCmd)

	putCmd.Flags().DurationVar(&putTTL, "ttl", 0, "Entry TTL (default: the cache-wide default)")
}

func parseEntryArgs(args []string) (cache.Namespace, string, error) {
	if err := validation.ValidateNamespaceKey(args[0], args[1]); err != nil {
		return "", "", err
	}

	ns := cache.Namespace(args[0])
	if !ns.Valid() {
		return "", "", fmt.Errorf("unknown namespace %q (valid: %v)", args[0], cache.Namespaces())
	}
	return ns, args[1], nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ns, key, err := parseEntryArgs(args)
	if err != nil {
		return err
	}

	c, kv, err := utils.NewCache()
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer kv.Close()

	var value json.RawMessage
	if !c.Get(ns, key, &value) {
		return fmt.Errorf("no valid entry for %s %s", ns, key)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, value, "", "  "); err != nil {
		return fmt.Errorf("failed to format value: %w", err)
	}
	fmt.Println(pretty.String())

	if age, ok := c.Age(ns, key); ok {
		fmt.Printf("\nLast updated %s", utils.FormatAge(age))
		if entry, ok := c.Inspect(ns, key); ok {
			remaining := time.Duration(entry.TTL)*time.Millisecond - age
			fmt.Printf(" • expires in %s", remaining.Round(time.Second))
		}
		fmt.Println()
	}

	return nil
}

func runPut(cmd *cobra.Command, args []string) error {
	ns, key, err := parseEntryArgs(args)
	if err != nil {
		return err
	}

	var value json.RawMessage
	if err := json.Unmarshal([]byte(args[2]), &value); err != nil {
		return fmt.Errorf("value is not valid JSON: %w", err)
	}

	c, kv, err := utils.NewCache()
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer kv.Close()

	if !c.Set(ns, key, value, putTTL) {
		return fmt.Errorf("failed to write entry %s %s", ns, key)
	}

	fmt.Printf("Stored %s %s\n", ns, key)
	return nil
}
