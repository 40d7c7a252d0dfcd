package social

import (
	"context"
	"testing"

	"boxd/lib/letterboxd/core"
	"boxd/lib/testutil"

	"github.com/stretchr/testify/require"
)

const peoplePage = `<!DOCTYPE html>
<html><body>
<table class="person-table">
	<tbody>
		<tr>
			<td class="table-person">
				<div class="person-summary">
					<a class="avatar -a40" href="/alice/"><img alt="Alice" /></a>
					<h3 class="title-3"><a href="/alice/" class="name">Alice</a></h3>
				</div>
			</td>
			<td class="col-watched"><a href="/alice/films/">1,204</a></td>
		</tr>
		<tr>
			<td class="table-person">
				<div class="person-summary">
					<a class="avatar -a40" href="/bob_k/"><img alt="Bob" /></a>
				</div>
			</td>
		</tr>
		<tr><td class="table-person">deleted member</td></tr>
	</tbody>
</table>
</body></html>`

func newTestClient(t *testing.T, site *testutil.Site, login bool) Client {
	t.Helper()
	ctx := context.Background()
	c, err := core.NewClient(ctx, core.ClientOptions{BaseUrl: site.URL()})
	if err != nil {
		t.Fatal(err)
	}
	if login {
		site.JSON("/user/login.do", `{"result": "success"}`)
		err = c.Login(ctx, "me", "hunter2")
		if err != nil {
			t.Fatal(err)
		}
	}
	return NewClient(c)
}

func TestPeople(t *testing.T) {
	site := testutil.NewSite(t, "lib/letterboxd/social")
	site.Page("/carol/following/", peoplePage)
	site.Page("/me/followers/", peoplePage)
	site.Page("/me/blocked/", peoplePage)

	anonymous := newTestClient(t, site, false)
	ctx := context.Background()

	following, err := anonymous.Following(ctx, "carol")
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob_k"}, following)

	_, err = anonymous.Followers(ctx, "")
	require.ErrorIs(t, err, core.ErrNotLoggedIn)
	_, err = anonymous.Blocked(ctx)
	require.ErrorIs(t, err, core.ErrNotLoggedIn)

	client := newTestClient(t, site, true)

	followers, err := client.Followers(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob_k"}, followers)

	blocked, err := client.Blocked(ctx)
	require.NoError(t, err)
	require.Len(t, blocked, 2)

	_, err = client.Following(ctx, "nobody")
	require.ErrorIs(t, err, core.ErrNotFound)
}
