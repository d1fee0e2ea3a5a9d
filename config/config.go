package config

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	RedisConfig       RedisStorageConfig
	HttpPort          int
	StorageType       StorageType
	DeploymentRoot    string
	GeneratorCapacity int
	ProviderTimeoutMs int
	TenantHeader      string
	UserHeader        string
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}
