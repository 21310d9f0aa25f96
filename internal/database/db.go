package database

import (
	"itops-backend/internal/config"
	"itops-backend/internal/logs"
	"itops-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError: unique index ihlallerini gorm.ErrDuplicatedKey olarak almak için
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logs.Logger.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logs.Logger.Fatalf("AutoMigrate hatası: %v", err)
	}

	logs.Logger.Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate şemayı günceller; testler bunu in-memory sqlite üzerinde çağırır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.InventoryCategory{},
		&models.InventoryItem{},
		&models.Ticket{},
	)
}
