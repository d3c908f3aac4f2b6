package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"jielong/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>Hello</b>  ", "Hello"},
		{"  春  眠\n不觉晓 ", "春 眠 不觉晓"},
		{"<script>alert(1)</script>标题", "标题"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"&lt;b&gt;x&lt;/b&gt;", "x"},
	}
	for _, tt := range tests {
		got := SanitizeTitle(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, got, SanitizeTitle(got), "sanitize must be idempotent for %q", tt.in)
	}
}

func TestCreateWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	work, err := env.works.Create(ctx, "owner", CreateWorkInput{
		Title:       "<b>春天</b>的故事",
		Category:    "诗歌",
		SubCategory: "现代诗",
		Rule:        "一字",
	})
	require.NoError(t, err)
	assert.Equal(t, "春天的故事", work.Title)
	assert.Equal(t, models.CategoryPoetry, work.Category)
	assert.Equal(t, "modern", work.SubCategory)
	assert.Equal(t, models.RuleCharacter, work.Rule)
	assert.Equal(t, models.VisibilityPublic, work.Visibility)
	assert.Equal(t, models.StatusWriting, work.Status)
	assert.Equal(t, AnonymousNickname, work.CreatorNickname)
	assert.Len(t, work.ID, 36)
	assert.Equal(t, []string{EventWorkCreated}, env.events.types())

	other, err := env.works.Create(ctx, "owner", CreateWorkInput{Title: "另一部", Category: "童话", License: "Private"})
	require.NoError(t, err)
	assert.Equal(t, models.Category("童话"), other.Category)
	assert.Equal(t, models.RuleSentence, other.Rule)
	assert.Equal(t, models.VisibilityPrivate, other.Visibility)
}

func TestCreateWork_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.works.Create(ctx, "", CreateWorkInput{Title: "春天"})
	assert.True(t, IsCode(err, CodeUnauthenticated))

	_, err = env.works.Create(ctx, "owner", CreateWorkInput{Title: "<i></i>春"})
	require.Error(t, err)
	assert.Equal(t, ReasonTitleTooShort, err.(*Error).Reason)

	_, err = env.works.Create(ctx, "owner", CreateWorkInput{Title: strings.Repeat("长", 101)})
	require.Error(t, err)
	assert.Equal(t, ReasonTitleTooLong, err.(*Error).Reason)

	_, err = env.works.Create(ctx, "owner", CreateWorkInput{Title: strings.Repeat("长", 100)})
	assert.NoError(t, err)
}

func TestCreateWork_DuplicateWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.works.Create(ctx, "owner", CreateWorkInput{Title: "春天"})
	require.NoError(t, err)

	env.clock.Advance(5 * time.Second)
	// 标签不同但净化后标题相同，仍视为重复
	_, err = env.works.Create(ctx, "owner", CreateWorkInput{Title: "<b>春天</b> "})
	assert.True(t, IsCode(err, CodeDuplicateSubmission))

	// 其他用户不受影响
	_, err = env.works.Create(ctx, "someone", CreateWorkInput{Title: "春天"})
	assert.NoError(t, err)

	env.clock.Advance(6 * time.Second)
	_, err = env.works.Create(ctx, "owner", CreateWorkInput{Title: "春天"})
	assert.NoError(t, err)
}

func TestUpdateWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	work := env.createWork(t, "owner", "春天")

	_, err := env.works.Update(ctx, work.ID, "", UpdateWorkInput{Title: "夏天"})
	assert.True(t, IsCode(err, CodeUnauthenticated))

	_, err = env.works.Update(ctx, "missing", "owner", UpdateWorkInput{Title: "夏天"})
	assert.True(t, IsCode(err, CodeNotFound))

	_, err = env.works.Update(ctx, work.ID, "intruder", UpdateWorkInput{Title: "夏天"})
	assert.True(t, IsCode(err, CodeForbidden))

	_, err = env.works.Update(ctx, work.ID, "owner", UpdateWorkInput{Title: " "})
	assert.True(t, IsCode(err, CodeValidationFailed))

	updated, err := env.works.Update(ctx, work.ID, "owner", UpdateWorkInput{Title: "<em>夏天</em>"})
	require.NoError(t, err)
	assert.Equal(t, "夏天", updated.Title)

	got, err := env.works.Get(ctx, work.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "夏天", got.Title)
}

func TestDeleteWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	work := env.createWork(t, "owner", "春天")
	env.contribute(t, work.ID, "a", "春风拂面")
	env.contribute(t, work.ID, "b", "细雨无声")
	env.contribute(t, work.ID, "c", "花开满园")
	_, err := env.votes.Vote(ctx, work.ID, "a")
	require.NoError(t, err)

	err = env.works.Delete(ctx, work.ID, "intruder")
	assert.True(t, IsCode(err, CodeForbidden))

	err = env.works.Delete(ctx, "missing", "owner")
	assert.True(t, IsCode(err, CodeNotFound))

	require.NoError(t, env.works.Delete(ctx, work.ID, "owner"))
	_, err = env.works.Get(ctx, work.ID, "owner")
	assert.True(t, IsCode(err, CodeNotFound))
	assert.Contains(t, env.events.types(), EventWorkDeleted)

	// 接龙与投票随作品级联删除
	var contributions, votes int64
	require.NoError(t, env.db.Model(&models.Contribution{}).Where("work_id = ?", work.ID).Count(&contributions).Error)
	require.NoError(t, env.db.Model(&models.Vote{}).Where("work_id = ?", work.ID).Count(&votes).Error)
	assert.Zero(t, contributions)
	assert.Zero(t, votes)
}

func TestGetWork_Private(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	work, err := env.works.Create(ctx, "owner", CreateWorkInput{Title: "私人笔记", License: "private"})
	require.NoError(t, err)

	_, err = env.works.Get(ctx, work.ID, "")
	assert.True(t, IsCode(err, CodeNotFound))
	_, err = env.works.Get(ctx, work.ID, "stranger")
	assert.True(t, IsCode(err, CodeNotFound))

	got, err := env.works.Get(ctx, work.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.VoteCount)
	assert.Equal(t, int64(1), got.Quorum)
}

func TestListWorks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.works.Create(ctx, "a", CreateWorkInput{Title: "公开诗歌", Category: "诗歌"})
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	_, err = env.works.Create(ctx, "a", CreateWorkInput{Title: "公开散文", Category: "散文"})
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	_, err = env.works.Create(ctx, "b", CreateWorkInput{Title: "私密散文", License: "private"})
	require.NoError(t, err)

	works, total, err := env.works.List(ctx, ListWorksInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, works, 2)
	assert.Equal(t, "公开散文", works[0].Title)

	works, total, err = env.works.List(ctx, ListWorksInput{ViewerID: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "私密散文", works[0].Title)

	works, total, err = env.works.List(ctx, ListWorksInput{ViewerID: "b", Category: "poetry"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "公开诗歌", works[0].Title)

	works, _, err = env.works.List(ctx, ListWorksInput{Page: 2})
	require.NoError(t, err)
	assert.Empty(t, works)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0))
	assert.Equal(t, 1, TotalPages(30))
	assert.Equal(t, 2, TotalPages(31))
}
