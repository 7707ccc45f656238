package constants

// Category is the food category a catalog item belongs to
type Category string

// BackendKind names a storage backend
type BackendKind string

const (
	AppName            = "caltrack"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/caltrack"
	DefaultConfigPath  = "~/.config/caltrack/caltrack.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar-date key format for daily records (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultNamespace prefixes every document key in the store
	DefaultNamespace = "nutritionTracker_"

	// Document key fragments
	CurrentUserKey   = "currentUser"
	UsersIndexKey    = "users"
	RecordsKeyPrefix = "records_"
	UserKeyPrefix    = "user_"
	UserFoodsPrefix  = "userFoods_"

	// CustomFoodIDPrefix marks user-authored catalog items
	CustomFoodIDPrefix = "custom-"

	// Default quantity used when logging a food without an explicit amount
	DefaultQuantityG = 100

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "caltrack-"

	// Environment variables
	EnvDBConnection = "CALTRACK_DB_CONNECTION"

	// Backends
	BackendJSON     BackendKind = "json"
	BackendSQLite   BackendKind = "sqlite"
	BackendPostgres BackendKind = "postgres"
	BackendRedis    BackendKind = "redis"
	BackendMemory   BackendKind = "memory"

	// Categories
	CategoryFruits     Category = "fruits"
	CategoryProteins   Category = "proteins"
	CategoryDairy      Category = "dairy"
	CategoryGrains     Category = "grains"
	CategoryVegetables Category = "vegetables"
	CategoryBeverages  Category = "beverages"
	CategorySnacks     Category = "snacks"

	// CategoryAll is the catalog filter matching every category
	CategoryAll Category = "all"
)

// Categories lists the food categories in display order
var Categories = []Category{
	CategoryFruits,
	CategoryProteins,
	CategoryDairy,
	CategoryGrains,
	CategoryVegetables,
	CategoryBeverages,
	CategorySnacks,
}

// Backends lists the supported storage backends
var Backends = []BackendKind{
	BackendJSON,
	BackendSQLite,
	BackendPostgres,
	BackendRedis,
	BackendMemory,
}
