package parsley

import (
	"fmt"
	"github.com/alexandre-normand/parsley/config"
	"github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

const (
	userInfoCacheSizeDisabledValue = 0
)

// UserInfoFinder defines the interface for finding a slack user's info
type UserInfoFinder interface {
	GetUserInfo(userID string) (user *slack.User, err error)
}

// authTester defines the interface for identifying the owner of the token. slack.Client implements it
type authTester interface {
	AuthTest() (response *slack.AuthTestResponse, err error)
}

// Identity holds "our" identity: the bot user id, its bot id and the display name others see it as
type Identity struct {
	ID    string
	BotID string
	Name  string
}

// cachingUserInfoFinder holds a cache and a loading UserInfoFinder to implement the UserInfoFinder loading entries from cache
type cachingUserInfoFinder struct {
	loader           UserInfoFinder
	logger           SLogger
	userProfileCache *lru.ARCCache
}

// NewCachingUserInfoFinder creates a new user info service with caching if enabled via config.UserInfoCacheSizeKey. It requires an implementation
// of the interface that will do the actual loading when not in cache
func NewCachingUserInfoFinder(v *viper.Viper, loader UserInfoFinder, logger SLogger) (uf UserInfoFinder, err error) {
	cuf := new(cachingUserInfoFinder)

	cs := v.GetInt(config.UserInfoCacheSizeKey)

	if cs < userInfoCacheSizeDisabledValue {
		return nil, fmt.Errorf("Invalid user info cache size [%d], must be [%d] (disabled) or positive", cs, userInfoCacheSizeDisabledValue)
	}

	if cs > userInfoCacheSizeDisabledValue {
		cuf.userProfileCache, err = lru.NewARC(cs)
		if err != nil {
			return nil, err
		}
	}

	cuf.loader = loader
	cuf.logger = logger

	return cuf, nil
}

// GetUserInfo gets the user info or returns an error and a nil user is not found or
// an error occurred during retrieval
func (c cachingUserInfoFinder) GetUserInfo(userID string) (u *slack.User, err error) {
	if c.userProfileCache == nil {
		c.logger.Debugf("Cache disabled, loading user info for [%s] from slack instead\n", userID)
		return c.loader.GetUserInfo(userID)
	}

	if userProfile, exists := c.userProfileCache.Get(userID); exists {
		c.logger.Debugf("User info in cache [%s] so using that\n", userID)

		userProfile, ok := userProfile.(slack.User)
		if !ok {
			return nil, fmt.Errorf("Error converting cached value for user id [%s]", userID)
		}

		return &userProfile, nil
	}

	c.logger.Debugf("User info for [%s] not found in cache, retrieving from slack and saving\n", userID)
	u, err = c.loader.GetUserInfo(userID)
	if err != nil {
		return nil, err
	}

	c.userProfileCache.Add(userID, *u)

	return u, nil
}

// resolveSelfIdentity finds "our" identity by testing the token's authentication and then loading the user info
// of the user the token belongs to. The display name is preferred and falls back on the user name
func resolveSelfIdentity(at authTester, uf UserInfoFinder) (self Identity, err error) {
	auth, err := at.AuthTest()
	if err != nil {
		return self, errors.Wrap(err, "authentication test failed")
	}

	self.ID = auth.UserID
	self.BotID = auth.BotID
	self.Name = auth.User

	u, err := uf.GetUserInfo(auth.UserID)
	if err != nil {
		return self, errors.Wrapf(err, "unable to load user info for bot user [%s]", auth.UserID)
	}

	if u.Profile.DisplayName != "" {
		self.Name = u.Profile.DisplayName
	} else if u.Name != "" {
		self.Name = u.Name
	}

	if self.Name == "" {
		return self, fmt.Errorf("No name found for bot user [%s]", auth.UserID)
	}

	return self, nil
}
