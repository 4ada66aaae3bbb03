package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"canarycast/internal/cache"
	"canarycast/internal/store"
	"canarycast/internal/utils"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the forecast cache",
	Long: `Manage the local cache of weather, POI, and insight data.

The cache stores fetched data with per-feature TTLs so the app can render
instantly and only call the upstream APIs when entries go stale.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Display entry counts per namespace and the size of the backing store.`,
	RunE:  runCacheStats,
}

var cacheClearNamespace string

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached data",
	Long:  `Remove cached entries, either everything or a single namespace. This forces fresh API calls on next use.`,
	RunE:  runCacheClear,
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired and stale cache entries",
	Long:  `Sweep the whole store, removing entries whose TTL has elapsed, whose schema version no longer matches, or whose stored text is corrupt. This runs automatically at startup but can be run manually.`,
	RunE:  runCacheCleanup,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)

	cacheClearCmd.Flags().StringVar(&cacheClearNamespace, "namespace", "", "Clear only this namespace (e.g. weather, poi)")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, kv, err := utils.NewCache()
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer kv.Close()

	fmt.Println("Cache statistics:")

	var total int64
	for _, ns := range cache.Namespaces() {
		n := int64(len(c.NamespaceItems(ns)))
		total += n
		if n > 0 {
			fmt.Printf("  %-14s %s\n", ns, utils.FormatCount(n))
		}
	}
	fmt.Printf("  %-14s %s\n", "total", utils.FormatCount(total))

	if sizer, ok := kv.(store.Sizer); ok {
		size, err := sizer.Size()
		if err != nil {
			return fmt.Errorf("failed to get store size: %w", err)
		}
		fmt.Printf("  %-14s %s\n", "store size", utils.FormatBytes(size))
	}

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, kv, err := utils.NewCache()
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer kv.Close()

	if cacheClearNamespace != "" {
		ns := cache.Namespace(cacheClearNamespace)
		if !ns.Valid() {
			return fmt.Errorf("unknown namespace %q (valid: %v)", cacheClearNamespace, cache.Namespaces())
		}
		if !c.ClearNamespace(ns) {
			return fmt.Errorf("failed to clear namespace %s", ns)
		}
		fmt.Printf("Cleared namespace %s\n", ns)
		return nil
	}

	cleared := 0
	for _, ns := range cache.Namespaces() {
		if c.ClearNamespace(ns) {
			cleared++
		}
	}
	fmt.Printf("Cleared %d namespaces\n", cleared)
	return nil
}

func runCacheCleanup(cmd *cobra.Command, args []string) error {
	c, kv, err := utils.NewCache()
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer kv.Close()

	removed := c.ClearExpired()
	if removed > 0 {
		fmt.Printf("Removed %d expired cache entries\n", removed)
	} else {
		fmt.Println("No expired entries to clean up")
	}

	// Reclaim file space after a bulk delete
	if s, ok := kv.(*store.SQLiteStore); ok && removed > 0 {
		if err := s.Vacuum(); err != nil {
			return fmt.Errorf("failed to compact store: %w", err)
		}
	}

	return nil
}
