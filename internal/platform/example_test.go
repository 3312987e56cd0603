package platform_test

import (
	"context"
	"fmt"
	"log"

	"github.com/ZebulonRouseFrantzich/binwrap/internal/platform"
)

func ExampleDetector_Detect() {
	info, err := platform.NewDetector().Detect(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("OS: %s\n", info.OS)
	fmt.Printf("Architecture: %s\n", info.Arch)

	if distro := info.GetDistro(); distro != nil {
		fmt.Printf("Distribution: %s (%s family)\n", distro.ID, distro.Family)
	}
}

func ExampleInfo_Triple() {
	info := &platform.Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"}

	fmt.Printf("https://example.com/releases/tool-%s.tar.gz\n", info.Triple())
	// Output: https://example.com/releases/tool-aarch64-apple-darwin.tar.gz
}

func ExampleStaticDetector() {
	var d platform.Detector = platform.StaticDetector{
		Info: &platform.Info{OS: "linux", Arch: "amd64", ArchRaw: "x86_64"},
	}

	info, _ := d.Detect(context.Background())
	fmt.Println(info.OS, info.Arch)
	// Output: linux amd64
}
