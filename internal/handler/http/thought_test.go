package http_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpHandler "thoughts-board/internal/handler/http"
)

func TestThoughts_AnnScenario(t *testing.T) {
	s := newTestServer(t)
	annToken := s.register("ann")
	bobToken := s.register("bob")

	th := s.createThought(annToken, "Hello world!")
	assert.Equal(t, "ann", th.Author)
	assert.Equal(t, 0, th.Hearts)

	w := s.do(http.MethodDelete, fmt.Sprintf("/thoughts/%d", th.ID), nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You can only modify your own thoughts"}`, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/thoughts/%d", th.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "被拒绝的删除不应生效")
}

func TestThoughts_OwnershipAndLike(t *testing.T) {
	s := newTestServer(t)
	annToken := s.register("ann")
	bobToken := s.register("bob")
	th := s.createThought(annToken, "ann's first thought")
	path := fmt.Sprintf("/thoughts/%d", th.ID)

	w := s.do(http.MethodPatch, path, gin.H{"hearts": 1000}, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, path+"/like", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var liked thoughtJSON
	decode(t, w, &liked)
	assert.Equal(t, 1, liked.Hearts)

	w = s.do(http.MethodPatch, path, gin.H{"message": "ann's edited thought"}, annToken)
	require.Equal(t, http.StatusOK, w.Code)
	var edited thoughtJSON
	decode(t, w, &edited)
	assert.Equal(t, "ann's edited thought", edited.Message)
	assert.Equal(t, 1, edited.Hearts)

	w = s.do(http.MethodPatch, path, gin.H{}, annToken)
	assert.Equal(t, http.StatusBadRequest, w.Code, "空更新")

	w = s.do(http.MethodDelete, path, nil, annToken)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted httpHandler.DeleteThoughtResponse
	decode(t, w, &deleted)
	assert.True(t, deleted.Success)
	require.NotNil(t, deleted.Deleted)
	assert.Equal(t, th.ID, deleted.Deleted.ID)

	w = s.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, path, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code, "不存在优先于无权限")
}

func TestThoughts_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ann")

	w := s.do(http.MethodPost, "/thoughts", gin.H{"message": "hey"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Message must be between 5 and 140 characters"}`, w.Body.String())

	w = s.do(http.MethodPost, "/thoughts", gin.H{"message": "valid message", "author": "mallory"}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var th thoughtJSON
	decode(t, w, &th)
	assert.Equal(t, "ann", th.Author, "作者不能由请求体指定")
}

func TestThoughts_Pagination(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ann")
	for i := 1; i <= 7; i++ {
		s.createThought(token, fmt.Sprintf("thought number %d", i))
	}

	w := s.do(http.MethodGet, "/thoughts/page/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page1 []thoughtJSON
	decode(t, w, &page1)
	require.Len(t, page1, 5)
	assert.Equal(t, "thought number 7", page1[0].Message)

	w = s.do(http.MethodGet, "/thoughts/page/2", nil, "")
	var page2 []thoughtJSON
	decode(t, w, &page2)
	assert.Len(t, page2, 2)

	w = s.do(http.MethodGet, "/thoughts/page/9", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, bad := range []string{"0", "-1", "abc", "1.5"} {
		w = s.do(http.MethodGet, "/thoughts/page/"+bad, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestThoughts_SearchAndHearts(t *testing.T) {
	s := newTestServer(t)
	token := s.register("ann")
	hello := s.createThought(token, "Hello World")
	s.createThought(token, "goodbye moon")
	for i := 0; i < 3; i++ {
		s.do(http.MethodPost, fmt.Sprintf("/thoughts/%d/like", hello.ID), nil, token)
	}

	w := s.do(http.MethodGet, "/thoughts/search/hello", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var found []thoughtJSON
	decode(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Hello World", found[0].Message)

	s.createThought(token, "ÉCOLE is great")
	w = s.do(http.MethodGet, "/thoughts/search/%C3%A9cole", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var accented []thoughtJSON
	decode(t, w, &accented)
	require.Len(t, accented, 1)
	assert.Equal(t, "ÉCOLE is great", accented[0].Message)

	w = s.do(http.MethodGet, "/thoughts/hearts/2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var popular []thoughtJSON
	decode(t, w, &popular)
	require.Len(t, popular, 1)
	assert.Equal(t, 3, popular[0].Hearts)

	w = s.do(http.MethodGet, "/thoughts/hearts/lots", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid 'min' parameter. Must be a number."}`, w.Body.String())
}

func TestThoughts_InvalidID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/thoughts/abc", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid ID"}`, w.Body.String())
}

func TestRouteList(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	var routes []httpHandler.RouteInfo
	decode(t, w, &routes)
	assert.Contains(t, routes, httpHandler.RouteInfo{Method: http.MethodPatch, Path: "/thoughts/:id"})
	assert.Contains(t, routes, httpHandler.RouteInfo{Method: http.MethodPost, Path: "/register"})
}
