package entity

// All lists the models in migration order.
func All() []any {
	return []any{
		&User{},
		&Channel{},
		&Video{},
		&Space{},
		&Subscription{},
		&Comment{},
		&Like{},
		&WatchHistory{},
		&Playlist{},
		&PlaylistVideo{},
		&Notification{},
	}
}
