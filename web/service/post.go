package service

import (
	"time"

	"github.com/weijue/blog/database"
	"github.com/weijue/blog/database/model"
)

// PostService is the data access layer for posts.
type PostService struct{}

// SavePost persists the post, creating it when Id is zero. CreateTime is set
// exactly once: when still unset at first save.
func (s *PostService) SavePost(post *model.Post) error {
	if post.CreateTime.IsZero() {
		post.CreateTime = time.Now()
	}
	return database.GetDB().Save(post).Error
}

func (s *PostService) GetPost(id int) (*model.Post, error) {
	db := database.GetDB()
	post := &model.Post{}
	err := db.Model(model.Post{}).
		Where("id = ?", id).
		First(post).
		Error
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetAllPosts returns every post, newest first.
func (s *PostService) GetAllPosts() ([]*model.Post, error) {
	db := database.GetDB()
	var posts []*model.Post
	err := db.Model(model.Post{}).
		Order("create_time desc").
		Find(&posts).
		Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// DelPost removes the post with the given id. Deleting a missing id is a
// no-op, not an error.
func (s *PostService) DelPost(id int) error {
	return database.GetDB().Delete(&model.Post{}, id).Error
}

func (s *PostService) CountPosts() (int64, error) {
	var count int64
	err := database.GetDB().Model(model.Post{}).Count(&count).Error
	return count, err
}
