//go:build !windows

package platform

func newServices(opts Options) Services {
	return Services{
		Legacy:     &fontconfigLegacy{list: fcList},
		Collection: &fontconfigCollection{list: fcList},
		FontSet:    &fontscanSet{cacheDir: opts.CacheDir, log: opts.Log},
	}
}
