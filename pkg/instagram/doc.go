// Package instagram is a small client for Instagram's web API.
//
// It covers the four calls a likes scrape needs: Login, ResolveUserID,
// ListUserPosts and ListLikers. The session lives in the client's cookie
// jar, so one Client must be used for the login and every later call.
//
//	client := instagram.NewClient(30*time.Second, cfg.UserAgent, log)
//	client.SetLimiter(ratelimit.NewTokenBucket(cfg.RequestsPerMinute, time.Minute, cfg.RequestBurst))
//	if err := client.Login(ctx, user, pass); err != nil {
//	    if errors.IsAuth(err) {
//	        // bad credentials or a challenge
//	    }
//	}
//
// Failures are *errors.Error values classified by type (auth, not_found,
// rate_limit and so on).
package instagram
