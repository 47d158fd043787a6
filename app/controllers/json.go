package controllers

import (
	"time"

	"yatube/app/models"
	"yatube/app/views"
)

type postResponse struct {
	ID       int               `json:"id"`
	Text     string            `json:"text"`
	PubDate  time.Time         `json:"pub_date"`
	Author   string            `json:"author"`
	Group    string            `json:"group,omitempty"`
	Comments []commentResponse `json:"comments,omitempty"`
}

type commentResponse struct {
	ID      int       `json:"id"`
	Post    int       `json:"post"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

type pageResponse struct {
	Count    int            `json:"count"`
	NumPages int            `json:"num_pages"`
	Page     int            `json:"page"`
	Next     *int           `json:"next"`
	Previous *int           `json:"previous"`
	Group    *models.Group  `json:"group,omitempty"`
	Author   *models.User   `json:"author,omitempty"`
	Results  []postResponse `json:"results"`
}

func newPostResponse(post *models.Post) postResponse {
	resp := postResponse{ID: post.ID, Text: post.Text, PubDate: post.CreatedAt}
	if post.Author != nil {
		resp.Author = post.Author.Username
	}
	if post.Group != nil {
		resp.Group = post.Group.Slug
	}
	for _, c := range post.Comments {
		resp.Comments = append(resp.Comments, newCommentResponse(c))
	}
	return resp
}

func newCommentResponse(c *models.Comment) commentResponse {
	resp := commentResponse{ID: c.ID, Post: c.PostID, Text: c.Text, Created: c.CreatedAt}
	if c.Author != nil {
		resp.Author = c.Author.Username
	}
	return resp
}

func newPageResponse(page *views.PostPage) pageResponse {
	resp := pageResponse{
		Count:    page.Count(),
		NumPages: page.NumPages(),
		Page:     page.Number,
		Results:  make([]postResponse, 0, page.Len()),
	}
	if page.HasNext() {
		n := page.NextPageNumber()
		resp.Next = &n
	}
	if page.HasPrevious() {
		n := page.PreviousPageNumber()
		resp.Previous = &n
	}
	for _, post := range page.Items {
		resp.Results = append(resp.Results, newPostResponse(post))
	}
	return resp
}
