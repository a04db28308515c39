package dto

import "time"

type FollowingDTO struct {
	Author     *AuthorDTO `json:"author"`
	FollowedAt time.Time  `json:"followedAt"`
}
