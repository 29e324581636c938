package assets

import (
	"context"
	"fmt"

	"github.com/haneulgyeol/cloud-atlas/internal/config"
)

// Open selects a Store implementation from config.
//
//	ASSET_DRIVER: fs|s3|memory (default fs)
//	ASSET_FS_ROOT: directory root when driver=fs (default ./public)
//	ASSET_S3_*: bucket, region, endpoint and path style when driver=s3
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Driver(cfg.AssetDriver) {
	case DriverFS:
		return NewFSStore(cfg.AssetFSRoot)
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.AssetS3Bucket,
			Region:    cfg.AssetS3Region,
			Endpoint:  cfg.AssetS3Endpoint,
			PathStyle: cfg.AssetS3PathStyle,
		})
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown asset driver %s", cfg.AssetDriver)
	}
}
