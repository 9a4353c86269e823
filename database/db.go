package database

import (
	"io/fs"
	"log"
	"os"
	"path"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/weijue/blog/config"
	"github.com/weijue/blog/database/model"
	"github.com/weijue/blog/util/random"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.Post{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// initPosts seeds sample posts the first time the blog starts with an empty
// table. Create times are spread over the previous 48 hours so the listing
// has an order to show.
func initPosts() error {
	empty, err := isTableEmpty("posts")
	if err != nil {
		log.Printf("Error checking if posts table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}
	for _, post := range seedPosts() {
		if err := db.Create(post).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPosts() []*model.Post {
	posts := []*model.Post{
		{
			Title: "Hello World",
			Content: "欢迎来到 Weijue 的博客。\n\n这是一个极简的博客系统。\n" +
				"在这里，我们将探索代码的奥秘，分享生活的点滴。\n\n保持饥渴，保持愚蠢。",
			Author: "Weijue",
		},
		{
			Title: "设计之美：少即是多",
			Content: "在用户界面设计中，\"少即是多\"（Less is More）不仅是一种审美选择，更是一种功能性原则。\n\n" +
				"通过减少视觉噪音，我们能够引导用户关注真正重要的内容。留白不是浪费空间，而是创造呼吸感。\n\n" +
				"优秀的交互设计应该是隐形的，让用户在使用过程中感受不到\"设计\"的存在，只有流畅的体验。",
			Author: "Weijue",
		},
		{
			Title: "Go 实战笔记",
			Content: "Go 极大地简化了服务端应用的开发。\n\n" +
				"1. **标准库**：net/http 开箱即用。\n" +
				"2. **并发模型**：goroutine 和 channel 让并发变得简单。\n" +
				"3. **部署**：编译为单一二进制文件。\n\n" +
				"代码示例：\n```go\nfunc main() {\n    fmt.Println(\"Hello Go!\")\n}\n```",
			Author: "Admin",
		},
		{
			Title: "关于未来",
			Content: "未来不属于预言家，而属于创造者。\n\n" +
				"我们正在经历技术爆炸的时代，AI、云计算、边缘计算正在重塑我们的世界。\n" +
				"作为开发者，我们不仅是观察者，更是参与者。\n\n拥抱变化，终身学习。",
			Author: "Weijue",
		},
	}
	now := time.Now()
	for _, post := range posts {
		post.CreateTime = now.Add(-time.Duration(random.Num(48)) * time.Hour)
	}
	return posts
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger gormlogger.Interface

	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initPosts(); err != nil {
		return err
	}

	return nil
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
