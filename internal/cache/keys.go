package cache

import "fmt"

// Cache keys are deterministic functions of resource identity and page
// number, so writes can invalidate exactly the reads they affect.

const KeyAllUsers = "users:all"

func KeyUser(id string) string {
	return "user:" + id
}

func KeyPost(id string) string {
	return "post:" + id
}

func KeyUserPosts(authorID string, page int) string {
	return fmt.Sprintf("posts:user:%s:page:%d", authorID, page)
}

func KeyFeed(page int) string {
	return fmt.Sprintf("posts:feed:page:%d", page)
}

// PrefixUserPosts matches every cached page of one author's posts.
func PrefixUserPosts(authorID string) string {
	return "posts:user:" + authorID + ":"
}

// PrefixFeed matches every cached feed page.
const PrefixFeed = "posts:feed:"
