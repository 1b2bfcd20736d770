package models

import (
	"guestsnap/db"
)

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Grant{})
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&AlbumShare{})
	db.Instance.AutoMigrate(&Photo{})
	db.Instance.AutoMigrate(&Guest{})
}
