package repository

import (
	"testing"

	"readsprint_backend/internal/model"
)

func TestParentChapterID(t *testing.T) {
	ch := func(id uint, start, end int) model.Chapter {
		c := model.Chapter{StartPage: start, EndPage: end}
		c.ID = id
		return c
	}
	chapters := []model.Chapter{
		ch(11, 3, 7),
		ch(12, 8, 15),
	}

	cases := []struct {
		startPage int
		want      uint
	}{
		{3, 11},  // 章首页
		{5, 11},
		{7, 11},  // 章末页
		{8, 12},
		{15, 12},
		{1, 0},  // 章之前的孤立节
		{16, 0}, // 所有章之后
	}
	for _, c := range cases {
		if got := parentChapterID(chapters, c.startPage); got != c.want {
			t.Errorf("parentChapterID(startPage=%d) = %d, want %d", c.startPage, got, c.want)
		}
	}

	if got := parentChapterID(nil, 5); got != 0 {
		t.Errorf("parentChapterID with no chapters = %d, want 0", got)
	}
}
